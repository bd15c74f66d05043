package http

import (
	"encoding/json"
	"net/http"

	httperrors "github.com/opsboard/opsboard/internal/http/errors"
)

// WriteJSON serializa v como JSON con el status dado.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// ReadJSON decodifica el body de la request en dst. Rechaza campos
// desconocidos para detectar payloads mal formados temprano.
func ReadJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return httperrors.ErrInvalidJSON.WithDetail(err.Error())
	}
	return nil
}
