package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"runtime/pprof"
	"strings"

	_ "github.com/lintang-b-s/mapnav/docs"
	"github.com/lintang-b-s/mapnav/pkg/datastructure"
	"github.com/lintang-b-s/mapnav/pkg/engine/routingalgorithm"
	"github.com/lintang-b-s/mapnav/pkg/graph"
	"github.com/lintang-b-s/mapnav/pkg/guidance"
	"github.com/lintang-b-s/mapnav/pkg/kv"
	"github.com/lintang-b-s/mapnav/pkg/osmparser"
	"github.com/lintang-b-s/mapnav/pkg/search"
	"github.com/lintang-b-s/mapnav/pkg/server/rest"
	"github.com/lintang-b-s/mapnav/pkg/server/rest/service"

	"github.com/cockroachdb/pebble"
	"github.com/dgraph-io/badger/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "net/http/pprof"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

var (
	listenAddr      = flag.String("listenaddr", ":5000", "server listen address")
	mapFile         = flag.String("f", "berkeley.osm.pbf", "openstreetmap file for the road network graph")
	locationsDir    = flag.String("locationsdir", "./mapnav-locations", "badger dir for the h3 indexed location store")
	routesDir       = flag.String("routesdir", "./mapnav-routes", "pebble dir for saved route directions")
	maxVisitedNodes = flag.Int("maxvisited", 0, "cap on settled nodes per route query, 0 means unbounded")
	cpuprofile      = flag.String("cpuprofile", "", "write cpu profile to file")
	memprofile      = flag.String("memprofile", "", "write memory profile to this file")
)

// locationCollector feeds every named node into the in memory search index
// and keeps the records around for the kv store build after the parse.
type locationCollector struct {
	idx     *search.Index
	records []datastructure.LocationRecord
}

func (c *locationCollector) InsertLocation(record datastructure.LocationRecord) {
	c.idx.InsertLocation(record)
	c.records = append(c.records, record)
}

//	@title			mapnav API
//	@version		1.0
//	@description	openstreetmap routing, turn by turn directions and place autocomplete in go

//	@contact.name	lintang birda saputra
//	@description 	openstreetmap routing engine in go. A star shortest path, turn by turn directions, trie place autocomplete

//	@license.name	GNU Affero General Public License v3.0
//	@license.url	https://www.gnu.org/licenses/gpl-3.0.en.html

// @host		localhost:5000
// @BasePath	/api
// @schemes	http
func main() {
	flag.Parse()

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Fatal(err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	g := graph.NewRoadGraph()
	collector := &locationCollector{idx: search.NewIndex()}

	if err := osmparser.NewOsmParser().Parse(*mapFile, g, collector); err != nil {
		log.Fatal(err)
	}
	log.Printf("road graph ready, %d routable nodes", g.NumNodes())

	recordMemProfile(memprofile, "graph_build")

	badgerDB, err := badger.Open(badger.DefaultOptions(*locationsDir).WithLogger(nil))
	if err != nil {
		log.Fatal(err)
	}
	kvDB := kv.NewKVDB(badgerDB)
	defer kvDB.Close()

	if err := kvDB.BuildH3IndexedLocations(context.Background(), collector.records); err != nil {
		log.Fatal(err)
	}

	pebbleDB, err := pebble.Open(*routesDir, &pebble.Options{})
	if err != nil {
		log.Fatal(err)
	}
	routeStore := kv.NewRouteStore(pebbleDB)
	defer routeStore.Close()

	var routingAlgorithm *routingalgorithm.RouteAlgorithm
	if *maxVisitedNodes > 0 {
		routingAlgorithm = routingalgorithm.NewBoundedRouteAlgorithm(g, *maxVisitedNodes)
	} else {
		routingAlgorithm = routingalgorithm.NewRouteAlgorithm(g)
	}

	navigatorSvc := service.NewNavigationService(g, routingAlgorithm,
		guidance.NewDirectionsGenerator(g), collector.idx, kvDB, routeStore)
	recordMemProfile(memprofile, "service_init")

	reg := prometheus.NewRegistry()
	m := rest.NewMetrics(reg)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(rest.PromeHttpMiddleware(m)) // prometheus http middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Mount("/debug", middleware.Profiler())

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:5000/swagger/doc.json"),
	))

	rest.NavigatorRouter(r, navigatorSvc)

	fmt.Printf("\nA star + turn by turn directions ready!!")
	fmt.Printf("\nserver started at %s\n", *listenAddr)

	log.Fatal(http.ListenAndServe(*listenAddr, r))
}

func recordMemProfile(memprofile *string, name string) {
	if *memprofile != "" {
		*memprofile = strings.Replace(*memprofile, ".mprof", fmt.Sprintf("%s.mprof", name), -1)
		f, err := os.Create(*memprofile)
		if err != nil {
			log.Fatal(err)
		}
		pprof.WriteHeapProfile(f)
		f.Close()
	}
}
