package handler

import (
	"github.com/go-chi/chi/v5"
)

// Register mounts the console pages and the JSON API on r.
func Register(r chi.Router, console *ConsoleHandler, api *APIHandler) {
	r.Get("/", console.Index)
	r.Get("/object-detection", console.ObjectDetection)
	r.Post("/object-detection", console.DetectObjects)
	r.Post("/object-detection/queries", console.EditQueries)
	r.Post("/object-detection/demo", console.LoadDemo)
	r.Get("/video-action", console.VideoAction)
	r.Post("/video-action", console.DetectVideoAction)
	r.Get("/coming-soon", console.ComingSoon)
	r.Post("/errors/{form}/notification/dismiss", console.DismissNotification)
	r.Post("/errors/{form}/panel/dismiss", console.DismissPanel)

	r.Get("/health", api.Health)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/detect", api.Detect)
		r.Post("/detect/upload", api.DetectUpload)
		r.Post("/video_action/detect/upload", api.DetectVideoAction)
	})
}
