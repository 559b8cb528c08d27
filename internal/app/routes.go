package app

import (
	"net/http"

	"github.com/vancomm/minesweeper-codec/internal/handlers"
	"github.com/vancomm/minesweeper-codec/internal/repository"
)

func (a *App) loadRoutes() {
	a.router.HandleFunc("GET /status", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("\"ok\""))
	})

	c := handlers.NewCodecHandler(a.log, a.ws, a.cfg.Server.MaxBodyBytes)
	a.router.HandleFunc("POST /encode", c.Encode)
	a.router.HandleFunc("GET /decode", c.DecodeQuery)
	a.router.HandleFunc("POST /decode", c.DecodeJSON)
	a.router.HandleFunc("/worker", c.Worker)

	if a.db == nil {
		return
	}
	s := handlers.NewShareHandler(a.log, repository.New(a.db), a.owners, a.cfg.Server.MaxBodyBytes)
	a.router.HandleFunc("POST /shares", s.Create)
	a.router.HandleFunc("GET /shares", s.List)
	a.router.HandleFunc("GET /shares/{id}", s.Fetch)
	a.router.HandleFunc("DELETE /shares/{id}", s.Delete)
}
