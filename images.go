package main

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
)

// ImageRef is one puzzle image in the catalog. Images are opaque references
// (a name and a URL or data URL); the server never decodes them.
type ImageRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// EventEmitter is the slice of the hub the image catalog is allowed to see.
// The catalog is handed one at construction rather than reaching for the hub
// itself, so it can be exercised against a fake in tests.
type EventEmitter interface {
	Broadcast(msg any)
}

// ImageCatalog holds the ordered list of puzzle images for the current game.
// Clients fetch the list to build each round's boards; every mutation is
// announced through the emitter so open boards refresh. In-memory only, like
// the rest of the game state.
type ImageCatalog struct {
	mu     sync.RWMutex
	images []ImageRef
	events EventEmitter
}

func newImageCatalog(events EventEmitter) *ImageCatalog {
	return &ImageCatalog{events: events}
}

// List returns the catalog in upload order.
func (ic *ImageCatalog) List() []ImageRef {
	ic.mu.RLock()
	defer ic.mu.RUnlock()

	out := make([]ImageRef, len(ic.images))
	copy(out, ic.images)
	return out
}

func (ic *ImageCatalog) Add(name, url string) ImageRef {
	ic.mu.Lock()
	ref := ImageRef{
		ID:   uuid.NewString(),
		Name: name,
		URL:  url,
	}
	ic.images = append(ic.images, ref)
	ic.mu.Unlock()

	ic.announce()
	return ref
}

func (ic *ImageCatalog) Remove(id string) bool {
	ic.mu.Lock()
	dst := ic.images[:0]
	removed := false
	for _, ref := range ic.images {
		if ref.ID == id {
			removed = true
			continue
		}
		dst = append(dst, ref)
	}
	ic.images = dst
	ic.mu.Unlock()

	if removed {
		ic.announce()
	}
	return removed
}

func (ic *ImageCatalog) announce() {
	ic.events.Broadcast(ImageListMessage{
		Type:   "image_list",
		Images: ic.List(),
	})
}

func serveImageList(cfg *Config, ic *ImageCatalog, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		securityHeaders(cfg, w)

		if err := json.NewEncoder(w).Encode(ic.List()); err != nil {
			errs <- err

			return
		}
	}
}

func serveImageUpload(cfg *Config, ic *ImageCatalog) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		var body struct {
			Name string `json:"name"`
			URL  string `json:"url"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Name == "" || body.URL == "" {
			http.Error(w, "name and url are required", http.StatusBadRequest)
			return
		}

		ref := ic.Add(body.Name, body.URL)
		logf(cfg, "IMAGES: Added %q (%s)", ref.Name, ref.ID)

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(ref)
	}
}

func serveImageDelete(cfg *Config, ic *ImageCatalog) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		id := ps.ByName("id")
		if !ic.Remove(id) {
			http.Error(w, "no such image", http.StatusNotFound)
			return
		}

		logf(cfg, "IMAGES: Removed %s", id)
		w.WriteHeader(http.StatusNoContent)
	}
}

// registerImageRoutes sets up the image management surface:
//   - GET    <prefix>/images      -> ordered catalog as JSON
//   - POST   <prefix>/images      -> add an image reference
//   - DELETE <prefix>/images/:id  -> remove an image reference
func registerImageRoutes(cfg *Config, mux *httprouter.Router, ic *ImageCatalog, errs chan<- error) {
	mux.GET(cfg.prefix+"/images", serveImageList(cfg, ic, errs))

	mux.POST(cfg.prefix+"/images", serveImageUpload(cfg, ic))

	mux.DELETE(cfg.prefix+"/images/:id", serveImageDelete(cfg, ic))
}
