package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/linesmerrill/civicdesk/api"
	"github.com/linesmerrill/civicdesk/config"
	"github.com/linesmerrill/civicdesk/databases"
	"github.com/linesmerrill/civicdesk/models"
)

// RequestTimeout bounds every REST request; the notification stream is exempt
const RequestTimeout = 30 * time.Second

// App stores the router and db connection, so it can be reused
type App struct {
	Router   *mux.Router
	Config   config.Config
	Hub      *Hub
	Limiter  *api.Limiter
	Docs     DocumentStore
	dbHelper databases.DatabaseHelper
	client   databases.ClientHelper
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	if a.Hub == nil {
		a.Hub = NewHub()
	}

	// setup go-guardian for middleware
	m := api.MiddlewareDB{DB: databases.NewUserDatabase(a.dbHelper)}
	m.SetupGoGuardian()

	r := mux.NewRouter()
	r.Use(api.RequestLogger)

	cdb := databases.NewComplaintDatabase(a.dbHelper)
	adb := databases.NewAnnouncementDatabase(a.dbHelper)
	udb := databases.NewUserDatabase(a.dbHelper)

	c := Complaint{DB: cdb, Hub: a.Hub}
	d := Dashboard{CDB: cdb, ADB: adb, UDB: udb}
	an := Announcement{DB: adb}
	report := Report{RDB: databases.NewReportDatabase(a.dbHelper), Stats: d}
	u := User{DB: udb, Docs: a.Docs}
	n := Notifications{Hub: a.Hub, Secret: []byte(a.Config.JWTSecret)}

	authed := func(h http.HandlerFunc) http.Handler { return api.Middleware(h) }
	admin := func(h http.HandlerFunc) http.Handler { return api.Middleware(api.RequireRole(models.RoleAdmin, h)) }

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)

	// the stream is long lived so it stays outside the request timeout
	r.Handle("/api/v1/ws/notifications", http.HandlerFunc(n.StreamHandler)).Methods("GET")

	apiCreate := r.PathPrefix("/api/v1").Subrouter()
	apiCreate.Use(mux.MiddlewareFunc(api.TimeoutMiddleware(RequestTimeout)))

	apiCreate.Handle("/auth/token", authed(m.CreateToken)).Methods("POST")
	apiCreate.Handle("/auth/logout", authed(api.RevokeToken)).Methods("DELETE")

	apiCreate.Handle("/complaints", authed(c.ComplaintsHandler)).Methods("GET")
	apiCreate.Handle("/complaints", api.Middleware(a.Limiter.Middleware(http.HandlerFunc(c.CreateComplaintHandler)))).Methods("POST")
	apiCreate.Handle("/complaints/{complaint_id}", authed(c.ComplaintByIDHandler)).Methods("GET")
	apiCreate.Handle("/complaints/{complaint_id}/status", admin(c.UpdateComplaintStatusHandler)).Methods("PATCH", "PUT")

	apiCreate.Handle("/dashboard/overview", admin(d.OverviewHandler)).Methods("GET")
	apiCreate.Handle("/dashboard/resident", authed(d.ResidentHandler)).Methods("GET")

	apiCreate.Handle("/announcements", authed(an.AnnouncementsHandler)).Methods("GET")
	apiCreate.Handle("/announcements", admin(an.CreateAnnouncementHandler)).Methods("POST")
	apiCreate.Handle("/announcements/{announcement_id}", admin(an.UpdateAnnouncementHandler)).Methods("PUT")
	apiCreate.Handle("/announcements/{announcement_id}", admin(an.DeleteAnnouncementHandler)).Methods("DELETE")

	apiCreate.Handle("/reports", admin(report.ReportsHandler)).Methods("GET")
	apiCreate.Handle("/reports", admin(report.CreateReportHandler)).Methods("POST")

	apiCreate.Handle("/users", admin(u.UsersHandler)).Methods("GET")
	apiCreate.Handle("/users", admin(u.UserCreateHandler)).Methods("POST")
	apiCreate.Handle("/users/{user_id}", authed(u.UserHandler)).Methods("GET")
	apiCreate.Handle("/users/{user_id}", authed(u.UpdateUserByIDHandler)).Methods("PUT")
	apiCreate.Handle("/users/{user_id}", admin(u.DeleteUserHandler)).Methods("DELETE")

	apiCreate.Handle("/ws/ticket", authed(n.TicketHandler)).Methods("GET")

	// swagger docs hosted at "/"
	r.PathPrefix("/").Handler(http.StripPrefix("/", http.FileServer(http.Dir("./docs/"))))
	return r
}

// Initialize is invoked by main to connect with the database and create a router
func (a *App) Initialize(ctx context.Context) error {
	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With(err).Error("failed to create new client")
		return err
	}

	a.dbHelper = databases.NewDatabase(&a.Config, client)
	err = client.Connect(ctx)
	if err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With(err).Error("failed to connect to database")
		return err
	}
	a.client = client
	zap.S().Info("civicdesk has connected to the database")

	if a.Config.RedisAddress != "" {
		rdb, err := api.NewRedisClient(ctx, a.Config.RedisAddress, a.Config.RedisPassword)
		if err != nil {
			zap.S().Warnw("complaint submissions will not be rate limited", "error", err)
		} else {
			a.Limiter = &api.Limiter{Redis: rdb, Prefix: "complaints", Limit: int64(a.Config.ComplaintDailyLimit)}
		}
	}

	if a.Config.CloudinaryURL != "" {
		store, err := NewCloudinaryStore(a.Config.CloudinaryURL)
		if err != nil {
			zap.S().Warnw("user documents are disabled", "error", err)
		} else {
			a.Docs = store
		}
	}

	// initialize api router
	a.initializeRoutes()
	return nil
}

// Database exposes the connected database for background jobs
func (a *App) Database() databases.DatabaseHelper {
	return a.dbHelper
}

// Close disconnects from the database
func (a *App) Close(ctx context.Context) error {
	if a.client == nil {
		return nil
	}
	return a.client.Disconnect(ctx)
}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}
