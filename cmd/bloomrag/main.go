package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/micro"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/bloommama/bloomrag"
	"github.com/bloommama/bloomrag/ai"
	"github.com/bloommama/bloomrag/persistence/chromem"
	"github.com/bloommama/bloomrag/persistence/sqlite"
	"github.com/bloommama/bloomrag/scrape"

	mcpE "github.com/bloommama/bloomrag/mcp"
	httpT "github.com/bloommama/bloomrag/transport/http"
	natsT "github.com/bloommama/bloomrag/transport/nats"
)

func main() {
	cmd := &cli.Command{
		Name:  "bloomrag",
		Usage: "Bloom Mama RAG service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "path",
				Usage: "Path to the service data directory",
			},
			&cli.StringFlag{
				Name:    "nats",
				Usage:   "NATS server URL (empty disables the NATS transport)",
				Sources: cli.EnvVars("NATS_URL"),
			},
			&cli.StringFlag{
				Name:  "nats-topic",
				Usage: "NATS topic prefix",
				Value: "bloommama.rag",
			},
			&cli.StringFlag{
				Name:  "http-addr",
				Usage: "HTTP server address",
				Value: ":8080",
			},
		},
		Action: run,
	}

	err := cmd.Run(context.Background(), os.Args)
	if err != nil {
		log.Fatal(err.Error())
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("path")
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return err
		}

		path = filepath.Join(homeDir, ".bloommama")
	}

	log, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	defer log.Sync()

	zap.ReplaceGlobals(log)

	var cfg bloomrag.Config

	f, err := os.Open(filepath.Join(path, "config.yaml"))
	switch {
	case err == nil:
		defer f.Close()

		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
			return err
		}

	case errors.Is(err, fs.ErrNotExist):
		// defaults only

	default:
		return err
	}

	cfg.ApplyDefaults()
	cfg.Vector.Path = filepath.Join(path, "vectors")

	if cfg.Store.Path == "" {
		cfg.Store.Path = filepath.Join(path, "data")
	}

	documents, err := sqlite.NewDocumentStore(cfg.Store)
	if err != nil {
		return err
	}

	vector, err := chromem.NewChromemVectorDB(cfg.Vector)
	if err != nil {
		return err
	}

	gateway, err := ai.NewGatewayClient(cfg.AI)
	if err != nil {
		return err
	}

	fetcher, err := scrape.NewFirecrawlFetcher(cfg.Scrape)
	if err != nil {
		return err
	}

	svc, err := bloomrag.NewService(cfg, documents, vector, fetcher, gateway)
	if err != nil {
		return err
	}
	defer svc.Close()

	svc = bloomrag.LoggingMiddleware(log)(svc)

	endpoints := bloomrag.EndpointSet{
		IngestDocument: bloomrag.IngestDocumentEndpoint(svc),
		Answer:         bloomrag.AnswerEndpoint(svc),
		ListDocuments:  bloomrag.ListDocumentsEndpoint(svc),
		DeleteDocument: bloomrag.DeleteDocumentEndpoint(svc),
	}

	// Add NATS Transport
	natsURL := cmd.String("nats")
	if natsURL != "" {
		nc, err := nats.Connect(natsURL,
			nats.Name("Bloom Mama RAG Service"),
		)

		if err != nil {
			return err
		}
		defer nc.Drain()

		srv, err := micro.AddService(nc, micro.Config{
			Name:    "bloomrag",
			Version: "1.0.0",
		})

		if err != nil {
			return err
		}
		defer srv.Stop()

		root := srv.AddGroup(cmd.String("nats-topic"))
		natsT.AddEndpoints(root, endpoints)
	}

	// Add HTTP Transport
	{
		r := gin.Default()
		httpT.AddRouters(r, endpoints)

		endpoints := make(map[mcp.MCPMethod]mcpE.MCPEndpoint)
		endpoints[mcp.MethodInitialize] = mcpE.InitializeEndpoint(svc)
		endpoints[mcp.MethodPing] = mcpE.PingEndpoint(svc)
		endpoints[mcp.MethodToolsList] = mcpE.ListToolsEndpoint(svc)
		endpoints[mcp.MethodToolsCall] = mcpE.CallToolEndpoint(svc)
		httpT.AddStreamableRouters(r, endpoints)

		httpAddr := cmd.String("http-addr")
		go r.Run(httpAddr)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sign := <-quit

	log.Info("graceful shutdown", zap.String("signal", sign.String()))
	return nil
}
