package routes

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

// CORS wraps the router so every response carries CORS headers, error
// paths included, and OPTIONS preflights are answered before dispatch.
func CORS(router *mux.Router) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods(router, r))
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Business-ID, X-User-Email")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		router.ServeHTTP(w, r)
	})
}

// allowedMethods lists the verbs registered for the request's path, so the
// allow-list matches what the endpoint actually supports.
func allowedMethods(router *mux.Router, r *http.Request) string {
	methods := map[string]bool{"OPTIONS": true}

	router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		tpl, err := route.GetPathTemplate()
		if err != nil || tpl != r.URL.Path {
			return nil
		}
		if verbs, err := route.GetMethods(); err == nil {
			for _, v := range verbs {
				methods[v] = true
			}
		}
		return nil
	})

	out := make([]string, 0, len(methods))
	for _, v := range []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"} {
		if methods[v] {
			out = append(out, v)
		}
	}
	return strings.Join(out, ", ")
}
