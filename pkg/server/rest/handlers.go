package rest

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/lintang-b-s/mapnav/pkg/datastructure"
	"github.com/lintang-b-s/mapnav/pkg/geo"
	"github.com/lintang-b-s/mapnav/pkg/raster"
	"github.com/lintang-b-s/mapnav/pkg/server"
	"github.com/lintang-b-s/mapnav/pkg/server/rest/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

type NavigationService interface {
	ShortestPath(ctx context.Context, srcLat, srcLon, dstLat, dstLon float64) (string,
		float64, []datastructure.DirectionStep, []datastructure.Coordinate, error)
	ManyToManyQuery(ctx context.Context, sourcesLat, sourcesLon, destsLat, destsLon []float64) (map[datastructure.Coordinate][]service.TargetResult, error)
	Autocomplete(ctx context.Context, query string) []string
	Locate(ctx context.Context, name string) ([]datastructure.LocationRecord, error)
	LocationsInView(ctx context.Context, swLat, swLon, neLat, neLon float64) []datastructure.LocationRecord
	LocationsWithinRadius(ctx context.Context, lat, lon, radiusMiles float64) []datastructure.LocationRecord
	NearbyLocations(ctx context.Context, lat, lon float64) ([]datastructure.LocationRecord, error)
	SaveShortestPath(ctx context.Context, name string, srcLat, srcLon, dstLat, dstLon float64) ([]datastructure.DirectionStep, error)
	LoadSavedDirections(ctx context.Context, name string) ([]datastructure.DirectionStep, error)
	ParseDirection(ctx context.Context, text string) (datastructure.DirectionStep, error)
	MapBounds(ctx context.Context) (geo.Bounds, error)
	MapRaster(ctx context.Context, ulLat, ulLon, lrLat, lrLon, width float64) (raster.Result, error)
}

type NavigationHandler struct {
	svc NavigationService
}

func NavigatorRouter(r *chi.Mux, svc NavigationService) {
	handler := &NavigationHandler{svc}

	r.Group(func(r chi.Router) {
		r.Route("/api/navigations", func(r chi.Router) {
			r.Post("/shortest-path", handler.ShortestPath)
			r.Post("/many-to-many", handler.ManyToMany)
			r.Post("/routes/{name}", handler.SaveRoute)
			r.Get("/routes/{name}", handler.LoadRoute)
			r.Post("/directions/parse", handler.ParseDirection)
		})
		r.Route("/api/places", func(r chi.Router) {
			r.Get("/autocomplete", handler.Autocomplete)
			r.Get("/locate", handler.Locate)
			r.Post("/in-view", handler.LocationsInView)
			r.Post("/within-radius", handler.LocationsWithinRadius)
			r.Post("/nearby", handler.Nearby)
		})
		r.Route("/api/map", func(r chi.Router) {
			r.Get("/bounds", handler.MapBounds)
			r.Get("/raster", handler.MapRaster)
		})
	})
}

// Coord model info
//
//	@Description	latitude/longitude pair
type Coord struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon float64 `json:"lon" validate:"gte=-180,lte=180"`
}

// ShortestPathRequest model info
//
//	@Description	request body for shortest path queries
type ShortestPathRequest struct {
	Source      Coord `json:"source"`
	Destination Coord `json:"destination"`
}

func (s *ShortestPathRequest) Bind(r *http.Request) error {
	return nil
}

// DirectionStepResponse model info
//
//	@Description	one turn by turn step, structured plus its rendered line
type DirectionStepResponse struct {
	Turn          string  `json:"turn"`
	RoadName      string  `json:"road_name"`
	DistanceMiles float64 `json:"distance_miles"`
	Text          string  `json:"text"`
}

func renderSteps(steps []datastructure.DirectionStep) []DirectionStepResponse {
	resp := make([]DirectionStepResponse, 0, len(steps))
	for _, step := range steps {
		resp = append(resp, DirectionStepResponse{
			Turn:          step.Turn.Phrase(),
			RoadName:      step.RoadName,
			DistanceMiles: step.DistanceMiles,
			Text:          step.Render(),
		})
	}
	return resp
}

// ShortestPathResponse model info
//
//	@Description	response body for shortest path queries
type ShortestPathResponse struct {
	Path          string                     `json:"path"`
	DistanceMiles float64                    `json:"distance_miles"`
	Directions    []DirectionStepResponse    `json:"directions"`
	Route         []datastructure.Coordinate `json:"route"`
}

// ShortestPath
//
//	@Summary		shortest route between two coordinates with turn by turn directions
//	@Description	snaps both coordinates to the road network, runs a star and renders directions
//	@Tags			navigations
//	@Param			body	body	ShortestPathRequest	true	"source and destination coordinates"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/navigations/shortest-path [post]
//	@Success		200	{object}	ShortestPathResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		404	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
func (h *NavigationHandler) ShortestPath(w http.ResponseWriter, r *http.Request) {
	data := &ShortestPathRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	if rendered, ok := validateRequest(*data); !ok {
		render.Render(w, r, rendered)
		return
	}

	p, dist, steps, route, err := h.svc.ShortestPath(r.Context(),
		data.Source.Lat, data.Source.Lon, data.Destination.Lat, data.Destination.Lon)
	if err != nil {
		render.Render(w, r, ErrRend(err))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, &ShortestPathResponse{
		Path:          p,
		DistanceMiles: dist,
		Directions:    renderSteps(steps),
		Route:         route,
	})
}

// ManyToManyRequest model info
//
//	@Description	request body for distance matrix queries
type ManyToManyRequest struct {
	Sources      []Coord `json:"sources" validate:"required,dive"`
	Destinations []Coord `json:"destinations" validate:"required,dive"`
}

func (s *ManyToManyRequest) Bind(r *http.Request) error {
	if len(s.Sources) == 0 || len(s.Destinations) == 0 {
		return errors.New("invalid request")
	}
	return nil
}

// ManyToManyResponse model info
//
//	@Description	response body for distance matrix queries
type ManyToManyResponse struct {
	Results []struct {
		Source  Coord                  `json:"source"`
		Targets []service.TargetResult `json:"targets"`
	} `json:"results"`
}

// ManyToMany
//
//	@Summary		shortest path distance matrix between source and destination sets
//	@Description	computes every source to destination route over a worker pool
//	@Tags			navigations
//	@Param			body	body	ManyToManyRequest	true	"source and destination coordinate sets"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/navigations/many-to-many [post]
//	@Success		200	{object}	ManyToManyResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		404	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
func (h *NavigationHandler) ManyToMany(w http.ResponseWriter, r *http.Request) {
	data := &ManyToManyRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	if rendered, ok := validateRequest(*data); !ok {
		render.Render(w, r, rendered)
		return
	}

	sourcesLat := make([]float64, 0, len(data.Sources))
	sourcesLon := make([]float64, 0, len(data.Sources))
	for _, c := range data.Sources {
		sourcesLat = append(sourcesLat, c.Lat)
		sourcesLon = append(sourcesLon, c.Lon)
	}
	destsLat := make([]float64, 0, len(data.Destinations))
	destsLon := make([]float64, 0, len(data.Destinations))
	for _, c := range data.Destinations {
		destsLat = append(destsLat, c.Lat)
		destsLon = append(destsLon, c.Lon)
	}

	matrix, err := h.svc.ManyToManyQuery(r.Context(), sourcesLat, sourcesLon, destsLat, destsLon)
	if err != nil {
		render.Render(w, r, ErrRend(err))
		return
	}

	resp := &ManyToManyResponse{}
	for srcCoord, targets := range matrix {
		resp.Results = append(resp.Results, struct {
			Source  Coord                  `json:"source"`
			Targets []service.TargetResult `json:"targets"`
		}{
			Source:  Coord{Lat: srcCoord.Lat, Lon: srcCoord.Lon},
			Targets: targets,
		})
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, resp)
}

// SavedRouteResponse model info
//
//	@Description	response body for saved route endpoints
type SavedRouteResponse struct {
	Name       string                  `json:"name"`
	Directions []DirectionStepResponse `json:"directions"`
}

// SaveRoute
//
//	@Summary		compute a route and persist its directions under a name
//	@Tags			navigations
//	@Param			name	path	string				true	"route name"
//	@Param			body	body	ShortestPathRequest	true	"source and destination coordinates"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/navigations/routes/{name} [post]
//	@Success		200	{object}	SavedRouteResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		404	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
func (h *NavigationHandler) SaveRoute(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		render.Render(w, r, ErrInvalidRequest(errors.New("route name cannot be empty")))
		return
	}

	data := &ShortestPathRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	if rendered, ok := validateRequest(*data); !ok {
		render.Render(w, r, rendered)
		return
	}

	steps, err := h.svc.SaveShortestPath(r.Context(), name,
		data.Source.Lat, data.Source.Lon, data.Destination.Lat, data.Destination.Lon)
	if err != nil {
		render.Render(w, r, ErrRend(err))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, &SavedRouteResponse{Name: name, Directions: renderSteps(steps)})
}

// LoadRoute
//
//	@Summary		load the directions saved under a name
//	@Tags			navigations
//	@Param			name	path	string	true	"route name"
//	@Produce		application/json
//	@Router			/navigations/routes/{name} [get]
//	@Success		200	{object}	SavedRouteResponse
//	@Failure		404	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
func (h *NavigationHandler) LoadRoute(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	steps, err := h.svc.LoadSavedDirections(r.Context(), name)
	if err != nil {
		render.Render(w, r, ErrRend(err))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, &SavedRouteResponse{Name: name, Directions: renderSteps(steps)})
}

// ParseDirectionRequest model info
//
//	@Description	request body carrying one rendered direction line
type ParseDirectionRequest struct {
	Text string `json:"text" validate:"required"`
}

func (s *ParseDirectionRequest) Bind(r *http.Request) error {
	if s.Text == "" {
		return errors.New("invalid request")
	}
	return nil
}

// ParseDirection
//
//	@Summary		parse one rendered direction line back into a structured step
//	@Tags			navigations
//	@Param			body	body	ParseDirectionRequest	true	"direction line"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/navigations/directions/parse [post]
//	@Success		200	{object}	DirectionStepResponse
//	@Failure		400	{object}	ErrResponse
func (h *NavigationHandler) ParseDirection(w http.ResponseWriter, r *http.Request) {
	data := &ParseDirectionRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	step, err := h.svc.ParseDirection(r.Context(), data.Text)
	if err != nil {
		render.Render(w, r, ErrRend(err))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, &DirectionStepResponse{
		Turn:          step.Turn.Phrase(),
		RoadName:      step.RoadName,
		DistanceMiles: step.DistanceMiles,
		Text:          step.Render(),
	})
}

// AutocompleteResponse model info
//
//	@Description	response body for prefix autocomplete
type AutocompleteResponse struct {
	Names []string `json:"names"`
}

// Autocomplete
//
//	@Summary		prefix autocomplete over location names
//	@Tags			places
//	@Param			query	query	string	true	"name prefix"
//	@Produce		application/json
//	@Router			/places/autocomplete [get]
//	@Success		200	{object}	AutocompleteResponse
func (h *NavigationHandler) Autocomplete(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")

	render.Status(r, http.StatusOK)
	render.JSON(w, r, &AutocompleteResponse{Names: h.svc.Autocomplete(r.Context(), query)})
}

// LocationsResponse model info
//
//	@Description	response body listing location records
type LocationsResponse struct {
	Locations []datastructure.LocationRecord `json:"locations"`
}

// Locate
//
//	@Summary		exact location lookup by (canonicalized) name
//	@Tags			places
//	@Param			name	query	string	true	"location name"
//	@Produce		application/json
//	@Router			/places/locate [get]
//	@Success		200	{object}	LocationsResponse
//	@Failure		404	{object}	ErrResponse
func (h *NavigationHandler) Locate(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")

	records, err := h.svc.Locate(r.Context(), name)
	if err != nil {
		render.Render(w, r, ErrRend(err))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, &LocationsResponse{Locations: records})
}

// InViewRequest model info
//
//	@Description	request body for viewport location queries
type InViewRequest struct {
	SouthWest Coord `json:"south_west"`
	NorthEast Coord `json:"north_east"`
}

func (s *InViewRequest) Bind(r *http.Request) error {
	return nil
}

// LocationsInView
//
//	@Summary		named locations inside a viewport rectangle
//	@Tags			places
//	@Param			body	body	InViewRequest	true	"south west and north east corner"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/places/in-view [post]
//	@Success		200	{object}	LocationsResponse
//	@Failure		400	{object}	ErrResponse
func (h *NavigationHandler) LocationsInView(w http.ResponseWriter, r *http.Request) {
	data := &InViewRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	if rendered, ok := validateRequest(*data); !ok {
		render.Render(w, r, rendered)
		return
	}

	records := h.svc.LocationsInView(r.Context(),
		data.SouthWest.Lat, data.SouthWest.Lon, data.NorthEast.Lat, data.NorthEast.Lon)

	render.Status(r, http.StatusOK)
	render.JSON(w, r, &LocationsResponse{Locations: records})
}

// WithinRadiusRequest model info
//
//	@Description	request body for radius location queries
type WithinRadiusRequest struct {
	Lat         float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon         float64 `json:"lon" validate:"gte=-180,lte=180"`
	RadiusMiles float64 `json:"radius_miles" validate:"required,gt=0"`
}

func (s *WithinRadiusRequest) Bind(r *http.Request) error {
	if s.RadiusMiles == 0 {
		return errors.New("invalid request")
	}
	return nil
}

// LocationsWithinRadius
//
//	@Summary		named locations within a radius of a point, nearest first
//	@Tags			places
//	@Param			body	body	WithinRadiusRequest	true	"center point and radius in miles"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/places/within-radius [post]
//	@Success		200	{object}	LocationsResponse
//	@Failure		400	{object}	ErrResponse
func (h *NavigationHandler) LocationsWithinRadius(w http.ResponseWriter, r *http.Request) {
	data := &WithinRadiusRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	if rendered, ok := validateRequest(*data); !ok {
		render.Render(w, r, rendered)
		return
	}

	records := h.svc.LocationsWithinRadius(r.Context(), data.Lat, data.Lon, data.RadiusMiles)

	render.Status(r, http.StatusOK)
	render.JSON(w, r, &LocationsResponse{Locations: records})
}

// NearbyRequest model info
//
//	@Description	request body for nearby location queries over the kv store
type NearbyRequest struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon float64 `json:"lon" validate:"gte=-180,lte=180"`
}

func (s *NearbyRequest) Bind(r *http.Request) error {
	return nil
}

// Nearby
//
//	@Summary		stored locations around a point from the h3 indexed store
//	@Tags			places
//	@Param			body	body	NearbyRequest	true	"query point"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/places/nearby [post]
//	@Success		200	{object}	LocationsResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		404	{object}	ErrResponse
func (h *NavigationHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	data := &NearbyRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	if rendered, ok := validateRequest(*data); !ok {
		render.Render(w, r, rendered)
		return
	}

	records, err := h.svc.NearbyLocations(r.Context(), data.Lat, data.Lon)
	if err != nil {
		render.Render(w, r, ErrRend(err))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, &LocationsResponse{Locations: records})
}

// MapBoundsResponse model info
//
//	@Description	coverage rectangle of the loaded map extract
type MapBoundsResponse struct {
	SouthWest Coord `json:"south_west"`
	NorthEast Coord `json:"north_east"`
}

// MapBounds
//
//	@Summary		coverage rectangle of the loaded openstreetmap extract
//	@Tags			map
//	@Produce		application/json
//	@Router			/map/bounds [get]
//	@Success		200	{object}	MapBoundsResponse
//	@Failure		404	{object}	ErrResponse
func (h *NavigationHandler) MapBounds(w http.ResponseWriter, r *http.Request) {
	bounds, err := h.svc.MapBounds(r.Context())
	if err != nil {
		render.Render(w, r, ErrRend(err))
		return
	}

	swLat, swLon := bounds.SouthWest()
	neLat, neLon := bounds.NorthEast()
	render.Status(r, http.StatusOK)
	render.JSON(w, r, &MapBoundsResponse{
		SouthWest: Coord{Lat: swLat, Lon: swLon},
		NorthEast: Coord{Lat: neLat, Lon: neLon},
	})
}

// MapRaster
//
//	@Summary		tile grid covering a viewport query box
//	@Tags			map
//	@Param			ullat	query	number	true	"upper left latitude"
//	@Param			ullon	query	number	true	"upper left longitude"
//	@Param			lrlat	query	number	true	"lower right latitude"
//	@Param			lrlon	query	number	true	"lower right longitude"
//	@Param			w		query	number	true	"viewport width in pixels"
//	@Produce		application/json
//	@Router			/map/raster [get]
//	@Success		200	{object}	raster.Result
//	@Failure		400	{object}	ErrResponse
func (h *NavigationHandler) MapRaster(w http.ResponseWriter, r *http.Request) {
	params := make(map[string]float64, 5)
	for _, key := range []string{"ullat", "ullon", "lrlat", "lrlon", "w"} {
		val, err := strconv.ParseFloat(r.URL.Query().Get(key), 64)
		if err != nil {
			render.Render(w, r, ErrInvalidRequest(errors.New("query param "+key+" must be a number")))
			return
		}
		params[key] = val
	}

	res, err := h.svc.MapRaster(r.Context(), params["ullat"], params["ullon"],
		params["lrlat"], params["lrlon"], params["w"])
	if err != nil {
		render.Render(w, r, ErrRend(err))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, res)
}

// validateRequest runs the validator with english translations over a bound
// request body.
func validateRequest(data interface{}) (render.Renderer, bool) {
	validate := validator.New()
	if err := validate.Struct(data); err != nil {
		english := en.New()
		uni := ut.New(english, english)
		trans, _ := uni.GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(validate, trans)
		return ErrValidation(err, translateError(err, trans)), false
	}
	return nil, true
}

func translateError(err error, trans ut.Translator) (errs []error) {
	if err == nil {
		return nil
	}
	validatorErrs := err.(validator.ValidationErrors)
	for _, e := range validatorErrs {
		errs = append(errs, errors.New(e.Translate(trans)))
	}
	return errs
}

// ErrResponse model info
//
//	@Description	model for error responses
type ErrResponse struct {
	Err            error `json:"-"` // low-level runtime error
	HTTPStatusCode int   `json:"-"` // http response status code

	StatusText    string   `json:"status"`          // user-level status message
	AppCode       int64    `json:"code,omitempty"`  // application-specific error code
	ErrorText     string   `json:"error,omitempty"` // application-level error message, for debugging
	ErrValidation []string `json:"validation,omitempty"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func ErrInvalidRequest(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
	}
}

func ErrValidation(err error, errV []error) render.Renderer {
	vv := []string{}
	for _, v := range errV {
		vv = append(vv, v.Error())
	}
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
		ErrValidation:  vv,
	}
}

// ErrRend maps a service error to the http status of its server error code.
func ErrRend(err error) render.Renderer {
	status := http.StatusInternalServerError
	statusText := "Internal server error."

	var srvErr *server.Error
	if errors.As(err, &srvErr) {
		switch srvErr.Code() {
		case server.ErrNotFound:
			status = http.StatusNotFound
			statusText = "Resource not found."
		case server.ErrBadParamInput:
			status = http.StatusBadRequest
			statusText = "Invalid request."
		case server.ErrConflict:
			status = http.StatusConflict
			statusText = "Conflict."
		}
	}

	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: status,
		StatusText:     statusText,
		ErrorText:      err.Error(),
	}
}
