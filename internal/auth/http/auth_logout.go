package http

import "net/http"

// HandleLogout godoc
//
//	@Summary		Sign out
//	@Description	Clears the session cookies. Tokens are stateless, so copies held elsewhere stay valid until they expire.
//	@Tags			Auth
//	@Success		204
//	@Router			/v1/auth/logout [post].
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.Cookies.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}
