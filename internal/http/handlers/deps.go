package handlers

import (
	"github.com/jmoiron/sqlx"

	"shopfront/internal/commerce"
	"shopfront/internal/config"
	"shopfront/internal/describe"
	"shopfront/internal/repos"
	"shopfront/internal/services"
	"shopfront/internal/state"
)

type Deps struct {
	Sessions *services.SessionService
	API      *commerce.Client
	State    *state.Store

	PageHandler     *PageHandler
	AuthHandler     *AuthHandler
	CartHandler     *CartHandler
	CheckoutHandler *CheckoutHandler
	ProfileHandler  *ProfileHandler
	AdminHandler    *AdminHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config) *Deps {
	sessSvc := &services.SessionService{Sessions: repos.NewSessionRepo(db)}
	api := commerce.NewClient(cfg.APIBaseURL, sessSvc)
	st := state.NewStore()
	gen := describe.NewClient(cfg.GenAPIURL, cfg.GenAPIKey)

	return &Deps{
		Sessions: sessSvc,
		API:      api,
		State:    st,

		PageHandler:     &PageHandler{API: api, State: st},
		AuthHandler:     &AuthHandler{API: api, Sessions: sessSvc, State: st},
		CartHandler:     &CartHandler{API: api, State: st},
		CheckoutHandler: &CheckoutHandler{API: api, State: st},
		ProfileHandler:  &ProfileHandler{API: api, Sessions: sessSvc},
		AdminHandler:    &AdminHandler{API: api, State: st, Gen: gen},
	}
}
