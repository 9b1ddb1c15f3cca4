package api

import (
	"github.com/yourname/wellnesstracker/internal"
	"github.com/yourname/wellnesstracker/internal/auth"
	"github.com/yourname/wellnesstracker/internal/service"
	"github.com/yourname/wellnesstracker/internal/storage"
)

type App interface {
	Logger() internal.Logger
	LogRepo() storage.HealthLogRepository
	InsightRepo() storage.InsightRepository
	UserRepo() storage.UserRepository
	BiometricRepo() storage.BiometricRepository
	Auth() auth.Provider
	FollowUp() *service.FollowUp
	SummaryDays() int
}

// Application is the App used by the server: one store backs every repository.
type Application struct {
	store       storage.Store
	provider    auth.Provider
	followUp    *service.FollowUp
	logger      internal.Logger
	summaryDays int
}

func NewApplication(store storage.Store, provider auth.Provider, followUp *service.FollowUp, logger internal.Logger, summaryDays int) *Application {
	if summaryDays <= 0 {
		summaryDays = 7
	}
	return &Application{
		store:       store,
		provider:    provider,
		followUp:    followUp,
		logger:      logger,
		summaryDays: summaryDays,
	}
}

func (a *Application) Logger() internal.Logger                    { return a.logger }
func (a *Application) LogRepo() storage.HealthLogRepository       { return a.store }
func (a *Application) InsightRepo() storage.InsightRepository     { return a.store }
func (a *Application) UserRepo() storage.UserRepository           { return a.store }
func (a *Application) BiometricRepo() storage.BiometricRepository { return a.store }
func (a *Application) Auth() auth.Provider                        { return a.provider }
func (a *Application) FollowUp() *service.FollowUp                { return a.followUp }
func (a *Application) SummaryDays() int                           { return a.summaryDays }
