package server

import (
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/issuehub/issuehub/pkg/audit"
	"github.com/issuehub/issuehub/pkg/auth"
	"github.com/issuehub/issuehub/pkg/authz"
	"github.com/issuehub/issuehub/pkg/config"
	"github.com/issuehub/issuehub/pkg/guardrail"
	"github.com/issuehub/issuehub/pkg/server/store"
	gormstore "github.com/issuehub/issuehub/pkg/server/store/gorm"
)

type Server struct {
	Router      *mux.Router
	DB          *gorm.DB
	Config      *config.Config
	TokenIssuer *auth.TokenIssuer
	Limiter     *guardrail.Limiter
	Recorder    *audit.Recorder
	Resolver    *authz.Resolver

	UsersStore       store.UsersStore
	ProjectsStore    store.ProjectsStore
	MembershipsStore store.MembershipsStore
	IssuesStore      store.IssuesStore
	CommentsStore    store.CommentsStore
	AuditStore       store.AuditStore

	srv *http.Server
}

func NewServer(cfg *config.Config, db *gorm.DB) (*Server, error) {
	router := mux.NewRouter().UseEncodedPath()
	srv := &http.Server{
		Handler: handlers.LoggingHandler(os.Stdout, router),
		Addr:    cfg.BindAddress + ":" + cfg.Port,
		// Good practice: enforce timeouts for servers you create!
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	auditStore := gormstore.NewAuditEntriesStore(db)
	recorder, err := audit.NewRecorder(audit.NewLogger(), auditStore, cfg.AuditEnabled)
	if err != nil {
		return nil, err
	}

	limiter := guardrail.NewLimiter(guardrail.NewMemoryBuckets(), map[guardrail.ActionClass]guardrail.Limit{
		guardrail.ClassAuth:  {Capacity: cfg.AuthRateCapacity, Refill: cfg.AuthRateRefill},
		guardrail.ClassWrite: {Capacity: cfg.WriteRateCapacity, Refill: cfg.WriteRateRefill},
	})

	memberships := gormstore.NewMembershipsStore(db)

	return &Server{
		Router:      router,
		DB:          db,
		Config:      cfg,
		TokenIssuer: auth.NewTokenIssuer([]byte(cfg.TokenSecret), cfg.TokenTTL()),
		Limiter:     limiter,
		Recorder:    recorder,
		Resolver:    authz.NewResolver(memberships),

		UsersStore:       gormstore.NewUsersStore(db),
		ProjectsStore:    gormstore.NewProjectsStore(db),
		MembershipsStore: memberships,
		IssuesStore:      gormstore.NewIssuesStore(db),
		CommentsStore:    gormstore.NewCommentsStore(db),
		AuditStore:       auditStore,

		srv: srv,
	}, nil
}

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}
