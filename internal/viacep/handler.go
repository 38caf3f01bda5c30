package viacep

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/paineladmin/api-usuarios/internal/apperrors"
)

type Handler struct {
	Client *Client
}

func NewHandler(client *Client) *Handler {
	return &Handler{Client: client}
}

// BuscarCEP resolve um CEP em endereço para o preenchimento automático do
// formulário. CEP inexistente responde 200 com corpo null.
func (h *Handler) BuscarCEP(w http.ResponseWriter, r *http.Request) {
	cep := mux.Vars(r)["cep"]

	endereco, err := h.Client.BuscarEndereco(r.Context(), cep)
	if err != nil {
		var val *apperrors.ErroValidacao
		status := http.StatusBadGateway
		if errors.As(err, &val) {
			status = http.StatusBadRequest
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(endereco)
}
