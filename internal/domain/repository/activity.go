package repository

import (
	"context"
	"time"
)

// Activity es un registro append-only de acciones: quién hizo qué, desde dónde.
// Nunca se muta ni se borra.
type Activity struct {
	ID        string
	ActorID   string // ID de cuenta, o "" para acciones anónimas (registro)
	Action    string // ej: "auth.login", "admin.user.update"
	Detail    string
	IP        string
	CreatedAt time.Time
}

// AppendActivityInput contiene los datos de un evento de actividad.
type AppendActivityInput struct {
	ActorID string
	Action  string
	Detail  string
	IP      string
}

// ActivityRepository define el log de actividad. Write-mostly: la única
// lectura es el listado paginado para admins.
type ActivityRepository interface {
	// Append agrega un evento al log.
	Append(ctx context.Context, input AppendActivityInput) error

	// List lista eventos ordenados por fecha descendente.
	List(ctx context.Context, limit, offset int) ([]Activity, error)
}
