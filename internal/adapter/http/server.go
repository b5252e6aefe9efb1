package adapthttp

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"mealtrack/internal/adapter/notify"
	"mealtrack/internal/app"
)

// Options tunes the HTTP adapter.
type Options struct {
	// WSPingInterval is how often the change feed pings idle clients.
	WSPingInterval time.Duration
}

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	svc      *app.Services
	broker   *notify.Broker
	log      *zap.Logger
	opts     Options
	upgrader websocket.Upgrader
	now      func() time.Time
}

// New creates a Server wired to the given application services. broker may
// be nil, in which case the change feed is not served.
func New(svc *app.Services, broker *notify.Broker, log *zap.Logger, opts Options) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.WSPingInterval <= 0 {
		opts.WSPingInterval = 25 * time.Second
	}
	return &Server{
		svc:    svc,
		broker: broker,
		log:    log,
		opts:   opts,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		now: time.Now,
	}
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	api.HandleFunc("/meals", s.handleMeals)
	api.HandleFunc("/meals/{id}", s.handleMeal)

	api.HandleFunc("/categories", s.handleCategories)
	api.HandleFunc("/categories/reconcile", s.handleCategoriesReconcile)
	api.HandleFunc("/categories/{category}", s.handleCategory)
	api.HandleFunc("/categories/{category}/toggle", s.handleCategoryToggle)
	api.HandleFunc("/categories/{category}/members/{id}", s.handleCategoryMember)

	api.HandleFunc("/totals/today", s.handleTotalsToday)

	api.HandleFunc("/history", s.handleHistory)
	api.HandleFunc("/history/recent", s.handleHistoryRecent)
	api.HandleFunc("/history/entries", s.handleHistoryEntries)
	api.HandleFunc("/history/close", s.handleHistoryClose)

	api.HandleFunc("/goals", s.handleGoals)
	api.HandleFunc("/goals/progress", s.handleGoalsProgress)
	api.HandleFunc("/onboarding", s.handleOnboarding)
	api.HandleFunc("/overview/weekly", s.handleOverviewWeekly)

	api.HandleFunc("/dev/seed/meals", s.handleDevSeedMeals)
	api.HandleFunc("/dev/seed/history", s.handleDevSeedHistory)
	api.HandleFunc("/dev/storage-size", s.handleDevStorageSize)
	api.HandleFunc("/dev/reset", s.handleDevReset)

	if s.broker != nil {
		api.HandleFunc("/ws", s.handleChangeFeed)
	}

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", api))

	return Chain(
		RequestID,
		Recovery(s.log),
		Logger(s.log),
		withNoCache,
	)(root)
}
