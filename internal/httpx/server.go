package httpx

import (
	"log"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"

	"netchess/internal/game"
)

// session pairs a game with the mutex that serializes submissions to it. The
// engine itself is single-owner and lock-free; concurrent clients are funneled
// here, at the session boundary.
type session struct {
	mu   sync.Mutex
	game *game.Game
}

// Server is the HTTP adapter over the game engine. It owns the registry of
// running games, keyed by uuid.
type Server struct {
	mu       sync.RWMutex
	sessions map[string]*session
}

func NewServer() *Server {
	return &Server{sessions: make(map[string]*session)}
}

// App builds the fiber application with middleware and routes.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${status} ${method} ${path} ${latency}\n",
	}))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	api := app.Group("/api")
	api.Post("/games", s.createGame)
	api.Get("/games/:gameId", s.getGame)
	api.Post("/games/:gameId/moves", s.makeMove)
	api.Get("/games/:gameId/moves", s.legalMoves)
	api.Post("/games/:gameId/resign", s.resign)
	api.Post("/games/:gameId/undo", s.undoMoves)
	api.Get("/games/:gameId/snapshot", s.getSnapshot)
	api.Post("/games/:gameId/snapshot", s.restoreSnapshot)
	api.Get("/games/:gameId/fingerprint", s.getFingerprint)
	api.Get("/games/:gameId/consistency", s.getConsistency)

	return app
}

// Listen starts the HTTP server on addr.
func (s *Server) Listen(addr string) error {
	log.Printf("HTTP listening on %s", addr)
	return s.App().Listen(addr)
}

func (s *Server) register(g *game.Game) string {
	id := uuid.New().String()
	s.mu.Lock()
	s.sessions[id] = &session{game: g}
	s.mu.Unlock()
	return id
}

func (s *Server) lookup(id string) (*session, bool) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	return sess, ok
}
