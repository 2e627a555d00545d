// Package handlers contient les handlers REST. Chaque handler valide la requête,
// appelle le store puis répond avec l'enveloppe {success, message?, ...}.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"storefront_back_end/internal/apperr"
	"storefront_back_end/internal/middleware"
	"storefront_back_end/internal/notify"
	"storefront_back_end/internal/rating"
	"storefront_back_end/internal/search"
	"storefront_back_end/internal/seed"
	"storefront_back_end/internal/storage"
	"storefront_back_end/internal/store"
	"storefront_back_end/internal/validation"
)

const backgroundTimeout = 30 * time.Second

// Deps regroupe les dépendances des handlers
type Deps struct {
	Store    store.Store
	Ratings  *rating.Aggregator
	Search   search.Indexer
	Images   storage.ImageStore
	Notifier notify.Notifier
	Seed     seed.Source
	Validate *validatorv10.Validate

	// Debug ajoute le détail des erreurs internes aux réponses (APP_ENV=development)
	Debug bool
	// Background lance une tâche hors requête; par défaut une goroutine
	Background func(task func())
}

type Handler struct {
	store    store.Store
	ratings  *rating.Aggregator
	search   search.Indexer
	images   storage.ImageStore
	notifier notify.Notifier
	seed     seed.Source
	validate *validatorv10.Validate
	debug    bool
	spawn    func(task func())
}

func New(d Deps) *Handler {
	h := &Handler{
		store:    d.Store,
		ratings:  d.Ratings,
		search:   d.Search,
		images:   d.Images,
		notifier: d.Notifier,
		seed:     d.Seed,
		validate: d.Validate,
		debug:    d.Debug,
		spawn:    d.Background,
	}
	if h.ratings == nil {
		h.ratings = rating.NewAggregator(d.Store)
	}
	if h.search == nil {
		h.search = search.Noop{}
	}
	if h.images == nil {
		h.images = storage.Disabled{}
	}
	if h.notifier == nil {
		h.notifier = notify.Noop{}
	}
	if h.seed == nil {
		h.seed = seed.NewClient("", nil)
	}
	if h.validate == nil {
		h.validate = validation.New()
	}
	if h.spawn == nil {
		h.spawn = func(task func()) { go task() }
	}
	return h
}

// --- réponses ---

func ok(c *gin.Context, status int, body gin.H) {
	if body == nil {
		body = gin.H{}
	}
	body["success"] = true
	c.JSON(status, body)
}

func (h *Handler) fail(c *gin.Context, err error) {
	e := apperr.From(err)
	body := gin.H{"success": false, "message": e.Message}
	if e.Kind == apperr.KindInternal {
		zap.L().Error("❌ "+e.Message,
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(e.Err),
		)
		if h.debug && e.Err != nil {
			body["error"] = e.Err.Error()
		}
	}
	c.AbortWithStatusJSON(e.Status(), body)
}

// storeErr traduit ErrNotFound en 404 avec le message donné
func storeErr(err error, notFound, internal string) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound(notFound)
	}
	return apperr.Internal(internal, err)
}

// objectID lit un paramètre de route; un id mal formé est un 404
func objectID(c *gin.Context, param, notFound string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param(param))
	if err != nil {
		return primitive.NilObjectID, apperr.NotFound(notFound)
	}
	return id, nil
}

func (h *Handler) bind(c *gin.Context, out any) bool {
	return validation.BindAndValidate(c, out, h.validate) == nil
}

func identity(c *gin.Context) (*middleware.Identity, error) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return nil, apperr.Unauthorized("Authentication required")
	}
	return id, nil
}

// background exécute task après la réponse, avec son propre contexte
func (h *Handler) background(name string, task func(ctx context.Context) error) {
	h.spawn(func() {
		ctx, cancel := context.WithTimeout(context.Background(), backgroundTimeout)
		defer cancel()
		if err := task(ctx); err != nil && !errors.Is(err, search.ErrDisabled) {
			zap.L().Warn("⚠️ Tâche de fond échouée", zap.String("task", name), zap.Error(err))
		}
	})
}

// Health répond aux sondes de liveness
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
