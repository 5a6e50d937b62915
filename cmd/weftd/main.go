package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"path"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	kconf "github.com/weftml/weft/pkg/configs/server"
	"github.com/weftml/weft/pkg/domain/weft"
	"github.com/weftml/weft/pkg/utils/echoutil"
	"github.com/weftml/weft/pkg/utils/filewatch"
	kstrings "github.com/weftml/weft/pkg/utils/strings"

	"github.com/weftml/weft/cmd/weftd/handlers"
)

func main() {

	configPath := flag.String("config-path", "", "weft server config path")
	schemaRepo := flag.String("schema-repo", os.Getenv("WEFT_SCHEMA"), "schema repository path")
	loglevel := flag.String("loglevel", "info", "log level. debug|info|warn|error|off")
	pcert := flag.String("cert", "", "certification file for TLS")
	pkey := flag.String("certkey", "", "key of certification file for TLS")
	flag.Parse()

	e := echo.New()
	e.Pre(middleware.AddTrailingSlash())

	// set log
	echoutil.SetLevel(e, *loglevel)
	e.HTTPErrorHandler = func(err error, ctx echo.Context) {
		e.DefaultHTTPErrorHandler(err, ctx)
		e.Logger.Error(err)
	}
	e.Use(echoutil.LogHandlerFunc)

	// read configfile
	conf, err := kconf.LoadServerConfig(*configPath)
	if err != nil {
		log.Fatalf("can not read configration: %s", err)
	}

	{
		ctx, cancel, err := filewatch.UntilModifyContext(context.Background(), *configPath)
		if err != nil {
			log.Fatalf("can not watch configration: %s", err)
		}
		defer cancel()
		context.AfterFunc(ctx, func() {
			log.Println("config file is updated. quit to restart server.")
			graceful, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := e.Shutdown(graceful); err != nil {
				log.Printf("error on shutdown by config update: %s", err)
			}
		})
	}

	api, err := root("/api")
	if err != nil {
		log.Fatalf("api root /api is invalid url or path: %s", err)
	}

	ctx := context.Background()
	w, err := weft.New(ctx, conf, weft.WithSchemaRepository(*schemaRepo))
	if err != nil {
		log.Fatalf("can not start weft: %s", err.Error())
	}
	defer w.Close()

	{
		// quit when the schema in the database goes ahead of this server.
		sctx, scancel := w.Schema().Database().Context(ctx)
		defer scancel()
		context.AfterFunc(sctx, func() {
			log.Println("database schema is updated. quit to restart server.")
			graceful, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := e.Shutdown(graceful); err != nil {
				log.Printf("error on shutdown by schema update: %s", err)
			}
		})
	}

	// handlers
	{
		e.POST(
			api("datasets"),
			handlers.RegisterDatasetHandler(w.Dataset(), conf.UploadRoot()),
		)
		e.GET(api("datasets"), handlers.FindDatasetHandler(w.Dataset().Database()))

		e.GET(api("datasets/:datasetId/"), handlers.GetDatasetHandler(w.Dataset().Database(), "datasetId"))
	}

	{
		e.POST(api("jobs"), handlers.RegisterJobHandler(
			w.TrainingJob(), w.Dataset().Database(), conf.Catalog(), conf.Defaults(),
		))
		e.GET(api("jobs"), handlers.FindJobHandler(w.TrainingJob()))

		e.GET(api("jobs/:jobId/"), handlers.GetJobHandler(w.TrainingJob(), "jobId"))
		e.POST(api("jobs/:jobId/cancel"), handlers.CancelJobHandler(w.TrainingJob(), "jobId"))
	}

	{
		e.POST(api("models"), handlers.RegisterModelHandler(w.TrainedModel()))
		e.GET(api("models"), handlers.FindModelHandler(w.TrainedModel()))

		e.GET(api("models/:modelId/"), handlers.GetModelHandler(w.TrainedModel(), "modelId"))
		e.GET(api("models/:modelId/metrics"), handlers.GetModelMetricsHandler(w.TrainedModel(), "modelId"))
	}

	{
		e.GET(api("catalog"), handlers.GetCatalogHandler(conf.Catalog(), conf.Defaults()))
	}

	log.Println("registred routes:")
	for _, r := range e.Routes() {
		log.Println(r.Method, r.Path)
	}

	cert, key := *pcert, *pkey
	if cert != "" && key != "" {
		e.Logger.Fatal(e.StartTLS(fmt.Sprintf(":%d", conf.Port()), cert, key))
	} else {
		e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", conf.Port())))
	}
}

// create api URL factory
//
// args:
//   - root: api root path
//
// return:
// - func: it receive relative path from root, and returns full-path of URL.
func root(r string) (func(...string) string, error) {
	base, err := url.Parse(r)
	if err != nil {
		return nil, err
	}

	return func(s ...string) string {
		parts := make([]string, len(s)+1)
		parts[0] = base.Path
		copy(parts[1:], s)
		p := path.Join(parts...)
		p = "/" + kstrings.TrimPrefixAll(p, "/")

		return kstrings.SuppySuffix(p, "/")
	}, nil
}
