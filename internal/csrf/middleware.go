package csrf

import (
	"encoding/json"
	"net/http"

	"github.com/paineladmin/api-usuarios/internal/apperrors"
)

// Middleware embrulha qualquer handler de mutação com a guarda anti-forgery.
// Todas as rotas que escrevem no banco passam por aqui, sem exceção.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		if err := g.Validar(r); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(apperrors.StatusHTTP(err))
			json.NewEncoder(w).Encode(map[string]interface{}{
				"success": false,
				"error":   err.Error(),
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// TokenHandler emite o token anti-forgery consumido pelo formulário.
func (t *Tokens) TokenHandler(w http.ResponseWriter, r *http.Request) {
	token, err := t.Gerar()
	if err != nil {
		http.Error(w, "erro ao gerar token", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"token": token})
}
