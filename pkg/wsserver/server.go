// Package wsserver is the browser-delivery "host UI" collaborator named in
// the purpose statement: it upgrades an HTTP connection to a WebSocket,
// accepts a render request, drives a renderer.Renderer through repeated
// ReadStream slices, and pushes each partial RGBA8 framebuffer as a binary
// frame until the render completes.
//
// A WebSocket carries the raw RGBA8 buffers as binary frames, avoiding
// the base64 overhead a text transport would impose per partial frame.
package wsserver

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/Fogrexon/WebPathtracer/pkg/integrator"
	"github.com/Fogrexon/WebPathtracer/pkg/light"
	"github.com/Fogrexon/WebPathtracer/pkg/renderer"
	"github.com/Fogrexon/WebPathtracer/pkg/vmath"
)

// Server hosts the streaming render endpoint on Port.
type Server struct {
	Port int

	// Scene is consulted for every connection: the caller populates it once
	// (via the renderer's host-facing calls, or the loaders package) before
	// Start. A production host would key multiple scenes by request; this
	// server renders the one Scene it was given, matching the renderer's
	// "one ephemeral value per process" design note.
	Scene *renderer.Renderer
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The browser client is same-origin in the reference deployment; a
	// production host behind a different origin would check r.Header
	// instead of accepting unconditionally.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// renderRequest is the JSON message a client sends once after the upgrade
// to kick off a stream.
type renderRequest struct {
	Width      int         `json:"width"`
	Height     int         `json:"height"`
	CameraWire [13]float64 `json:"camera"`
}

// NewServer wires Scene into a Server listening on port.
func NewServer(port int, scene *renderer.Renderer) *Server {
	return &Server{Port: port, Scene: scene}
}

// Start serves handler() on Port and blocks until it returns.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.Port)
	log.Printf("wsserver: listening on %s", addr)
	return http.ListenAndServe(addr, s.handler())
}

// handler builds the mux /ws is registered on, kept separate from Start so
// tests can serve it from an httptest.Server without touching the global
// DefaultServeMux.
func (s *Server) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	return mux
}

// handleWS upgrades the connection, reads one renderRequest, and streams
// partial RGBA8 frames until the render reaches renderer.StatusComplete.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("wsserver: upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	var req renderRequest
	if err := conn.ReadJSON(&req); err != nil {
		log.Printf("wsserver: reading render request: %v", err)
		return
	}
	if req.Width <= 0 || req.Height <= 0 {
		conn.WriteJSON(map[string]string{"error": "width and height must be positive"})
		return
	}

	s.Scene.SetCamera(req.CameraWire)
	buf := make([]byte, req.Width*req.Height*4)

	for {
		status, err := s.Scene.ReadStream(buf, req.Width, req.Height)
		if err != nil {
			conn.WriteJSON(map[string]string{"error": err.Error()})
			return
		}
		if err := conn.WriteMessage(websocket.BinaryMessage, buf); err != nil {
			log.Printf("wsserver: writing frame: %v", err)
			return
		}
		if status == renderer.StatusComplete {
			return
		}
	}
}

// NewEmptyScene builds an empty Renderer with the given background and
// light, ready for the host to populate via CreateTexture/CreateBounding/
// SetCamera before Start. This is a small convenience for hosts and tests;
// it is not part of the streaming contract itself.
func NewEmptyScene(seed int64, background vmath.Vec3, areaLight light.Area) *renderer.Renderer {
	r := renderer.New(seed)
	r.Light = areaLight
	r.Config = integrator.Config{Background: background, Logger: integrator.NopLogger{}}
	return r
}
