package httpserver

import "net/http"

// Routes groups handlers.
type Routes struct {
	Records http.Handler
	Stream  http.HandlerFunc
	Health  http.HandlerFunc
}

// NewRouter registers endpoints.
func NewRouter(routes Routes) http.Handler {
	mux := http.NewServeMux()
	if routes.Records != nil {
		mux.Handle("/processed_agent_data/", routes.Records)
	}
	if routes.Stream != nil {
		mux.Handle("/ws/", routes.Stream)
	}
	if routes.Health != nil {
		mux.Handle("/health", method(http.MethodGet, routes.Health))
	}
	return mux
}

func method(expected string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != expected {
			w.Header().Set("Allow", expected)
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		handler(w, r)
	}
}
