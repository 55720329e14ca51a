package chainapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/schema"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jiaming2012/txo-chain/src/calendar"
	"github.com/jiaming2012/txo-chain/src/eventmodels"
	"github.com/jiaming2012/txo-chain/src/eventproducers"
	"github.com/jiaming2012/txo-chain/src/eventpubsub"
	"github.com/jiaming2012/txo-chain/src/store"
	"github.com/jiaming2012/txo-chain/src/views"
)

var (
	errContractNotFound = errors.New("contract not found")
	errMalformedBody    = errors.New("malformed request body")
	errNoMarketInfo     = errors.New("market info not received yet")
)

type OTMSeriesProvider interface {
	OTMSeries() *eventmodels.OTMSeries
}

type ExpirationQuery struct {
	Expiration string `schema:"exp"`
}

type ContractQuery struct {
	Expiration string  `schema:"exp"`
	Strike     float64 `schema:"strike"`
	CP         string  `schema:"cp"`
}

type StrikeSubsetResponse struct {
	Expiration eventmodels.ExpirationDate `json:"expiration"`
	Strikes    []float64                  `json:"strikes"`
}

type FeedAcceptedResponse struct {
	Event eventmodels.FeedEventName `json:"event"`
}

// Handler serves read-only queries over the contract store and accepts
// feed events over HTTP.
type Handler struct {
	store    *store.ContractStore
	calendar *calendar.Calendar
	cfg      views.Config
	series   OTMSeriesProvider
	decoder  *schema.Decoder
}

func NewHandler(contractStore *store.ContractStore, cal *calendar.Calendar, cfg views.Config, series OTMSeriesProvider) *Handler {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)

	return &Handler{
		store:    contractStore,
		calendar: cal,
		cfg:      cfg,
		series:   series,
		decoder:  decoder,
	}
}

func setErrorResponse(w http.ResponseWriter, err error) {
	errType, status := "internal", http.StatusInternalServerError

	switch {
	case errors.Is(err, eventmodels.ErrInvalidExpiration),
		errors.Is(err, eventmodels.ErrInvalidContractKey),
		errors.Is(err, eventmodels.ErrUndecodableInstrument),
		errors.Is(err, eventmodels.ErrUnknownFeedEvent),
		errors.Is(err, errMalformedBody):
		errType, status = "request", http.StatusBadRequest
	case errors.Is(err, errContractNotFound):
		errType, status = "request", http.StatusNotFound
	case errors.Is(err, eventmodels.ErrSpotPriceUnknown),
		errors.Is(err, eventmodels.ErrStoreNotInitialized),
		errors.Is(err, errNoMarketInfo):
		errType, status = "state", http.StatusConflict
	}

	if respErr := eventproducers.SetErrorResponse(errType, status, err, w); respErr != nil {
		log.Errorf("chainapi: failed to set error response: %v", respErr)
	}
}

func setResponse[T any](w http.ResponseWriter, obj *T) {
	if err := eventproducers.SetResponse(obj, w); err != nil {
		log.Errorf("chainapi: %v", err)
	}
}

// expiration parses the exp query parameter. An empty value selects the
// near expiration of the chain.
func (h *Handler) expiration(r *http.Request) (eventmodels.ExpirationDate, error) {
	var q ExpirationQuery
	if err := h.decoder.Decode(&q, r.URL.Query()); err != nil {
		return "", fmt.Errorf("invalid query: %v: %w", err, eventmodels.ErrInvalidExpiration)
	}

	if q.Expiration == "" {
		return h.store.NearExpiration(), nil
	}

	return calendar.ParseExpiration(q.Expiration)
}

func (h *Handler) getChain(w http.ResponseWriter, r *http.Request) {
	setResponse(w, h.store.Snapshot())
}

func (h *Handler) getExpirations(w http.ResponseWriter, r *http.Request) {
	expirations := h.store.Expirations()
	setResponse(w, &expirations)
}

func (h *Handler) getChanges(w http.ResponseWriter, r *http.Request) {
	changes := h.store.ActiveChanges(h.store.Now())
	setResponse(w, &changes)
}

func (h *Handler) getMarketInfo(w http.ResponseWriter, r *http.Request) {
	info, ok := h.store.MarketInfo()
	if !ok {
		setErrorResponse(w, errNoMarketInfo)
		return
	}

	setResponse(w, &info)
}

func (h *Handler) getFuturesBars(w http.ResponseWriter, r *http.Request) {
	bars := h.store.FuturesBars()
	setResponse(w, &bars)
}

func (h *Handler) getClock(w http.ResponseWriter, r *http.Request) {
	expiration, err := h.expiration(r)
	if err != nil {
		setErrorResponse(w, err)
		return
	}

	clock, err := h.calendar.SessionClock(h.store.Now(), expiration)
	if err != nil {
		setErrorResponse(w, err)
		return
	}

	setResponse(w, &clock)
}

func (h *Handler) getContract(w http.ResponseWriter, r *http.Request) {
	var q ContractQuery
	if err := h.decoder.Decode(&q, r.URL.Query()); err != nil {
		setErrorResponse(w, fmt.Errorf("invalid query: %v: %w", err, eventmodels.ErrInvalidContractKey))
		return
	}

	key, err := eventmodels.NewContractKey(q.Expiration, q.Strike, q.CP)
	if err != nil {
		setErrorResponse(w, err)
		return
	}

	contract, found := h.store.Get(key)
	if !found {
		setErrorResponse(w, fmt.Errorf("%s: %w", key.ID(), errContractNotFound))
		return
	}

	setResponse(w, &contract)
}

func (h *Handler) getAnalytics(w http.ResponseWriter, r *http.Request) {
	expiration, err := h.expiration(r)
	if err != nil {
		setErrorResponse(w, err)
		return
	}

	snapshot := h.store.Snapshot()
	results, err := views.AnalyticsTable(r.Context(), snapshot, expiration, h.calendar, snapshot.TakenAt, h.cfg)
	if err != nil {
		setErrorResponse(w, err)
		return
	}

	setResponse(w, &results)
}

func (h *Handler) getOTMSum(w http.ResponseWriter, r *http.Request) {
	expiration, err := h.expiration(r)
	if err != nil {
		setErrorResponse(w, err)
		return
	}

	sum, err := views.OTMTimeValueSum(h.store.Snapshot(), expiration)
	if err != nil {
		setErrorResponse(w, err)
		return
	}

	setResponse(w, sum)
}

func (h *Handler) getProfitDistribution(w http.ResponseWriter, r *http.Request) {
	expiration, err := h.expiration(r)
	if err != nil {
		setErrorResponse(w, err)
		return
	}

	setResponse(w, views.ProfitDistribution(h.store.Snapshot(), expiration, h.cfg))
}

func (h *Handler) getIVSmile(w http.ResponseWriter, r *http.Request) {
	expiration, err := h.expiration(r)
	if err != nil {
		setErrorResponse(w, err)
		return
	}

	snapshot := h.store.Snapshot()
	smile, err := views.IVSmile(r.Context(), snapshot, expiration, h.calendar, snapshot.TakenAt, h.cfg)
	if err != nil {
		setErrorResponse(w, err)
		return
	}

	setResponse(w, smile)
}

func (h *Handler) getVolumeHistogram(w http.ResponseWriter, r *http.Request) {
	expiration, err := h.expiration(r)
	if err != nil {
		setErrorResponse(w, err)
		return
	}

	setResponse(w, views.VolumeHistogram(h.store.Snapshot(), expiration))
}

func (h *Handler) getStrikeSubset(w http.ResponseWriter, r *http.Request) {
	expiration, err := h.expiration(r)
	if err != nil {
		setErrorResponse(w, err)
		return
	}

	setResponse(w, &StrikeSubsetResponse{
		Expiration: expiration,
		Strikes:    views.StrikeSubset(h.store.Snapshot(), expiration, h.cfg),
	})
}

func (h *Handler) getOTMSeries(w http.ResponseWriter, r *http.Request) {
	series := &eventmodels.OTMSeries{}
	if h.series != nil {
		series = h.series.OTMSeries()
	}

	setResponse(w, series)
}

func (h *Handler) postPayoff(w http.ResponseWriter, r *http.Request) {
	var dtos []eventmodels.PositionLegDTO
	if err := json.NewDecoder(r.Body).Decode(&dtos); err != nil {
		setErrorResponse(w, fmt.Errorf("invalid legs: %v: %w", err, errMalformedBody))
		return
	}

	legs := make([]eventmodels.PositionLeg, 0, len(dtos))
	for _, dto := range dtos {
		leg, err := dto.ToModel()
		if err != nil {
			setErrorResponse(w, fmt.Errorf("%v: %w", err, errMalformedBody))
			return
		}

		legs = append(legs, leg)
	}

	setResponse(w, views.SimulatePayoff(h.store.Snapshot(), legs, h.cfg))
}

func (h *Handler) postFeedEvent(w http.ResponseWriter, r *http.Request) {
	name, err := eventmodels.ParseFeedEventName(mux.Vars(r)["eventName"])
	if err != nil {
		setErrorResponse(w, err)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		setErrorResponse(w, fmt.Errorf("failed to read body: %w", err))
		return
	}

	event, err := eventmodels.DecodeFeedEvent(string(name), body)
	if err != nil {
		setErrorResponse(w, fmt.Errorf("%v: %w", err, errMalformedBody))
		return
	}

	if err := eventpubsub.PublishFeedEvent("chainapi", event); err != nil {
		setErrorResponse(w, err)
		return
	}

	setResponse(w, &FeedAcceptedResponse{Event: name})
}

func handle(router *mux.Router, method string, pattern string, handlerFunc http.HandlerFunc) {
	router.Handle(pattern, otelhttp.WithRouteTag(pattern, handlerFunc)).Methods(method)
}

func SetupHandler(router *mux.Router, h *Handler) {
	handle(router, http.MethodGet, "/chain", h.getChain)
	handle(router, http.MethodGet, "/chain/expirations", h.getExpirations)
	handle(router, http.MethodGet, "/chain/changes", h.getChanges)
	handle(router, http.MethodGet, "/chain/clock", h.getClock)
	handle(router, http.MethodGet, "/chain/contract", h.getContract)
	handle(router, http.MethodGet, "/chain/analytics", h.getAnalytics)
	handle(router, http.MethodGet, "/chain/market", h.getMarketInfo)
	handle(router, http.MethodGet, "/chain/futures-bars", h.getFuturesBars)

	handle(router, http.MethodGet, "/views/otm-sum", h.getOTMSum)
	handle(router, http.MethodGet, "/views/profit-distribution", h.getProfitDistribution)
	handle(router, http.MethodGet, "/views/iv-smile", h.getIVSmile)
	handle(router, http.MethodGet, "/views/volume-histogram", h.getVolumeHistogram)
	handle(router, http.MethodGet, "/views/strike-subset", h.getStrikeSubset)
	handle(router, http.MethodGet, "/views/otm-series", h.getOTMSeries)
	handle(router, http.MethodPost, "/views/payoff", h.postPayoff)

	handle(router, http.MethodPost, "/feed/{eventName}", h.postFeedEvent)
}
