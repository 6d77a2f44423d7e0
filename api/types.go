package api

// maxBodyBytes caps JSON request bodies
const maxBodyBytes = 1 << 20

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	projectHandler       projectHandler
	certificationHandler certificationHandler
	contactHandler       contactHandler
	healthHandler        healthHandler
}

// statusUpdateRequest is the body of PATCH /api/contact/{id}/status
type statusUpdateRequest struct {
	Status string `json:"status"`
}

// healthStatus is the data of GET /api/health
type healthStatus struct {
	Status      string  `json:"status"`
	Uptime      float64 `json:"uptime"`
	Environment string  `json:"environment"`
	Timestamp   string  `json:"timestamp"`
}
