package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/cmars/broadside/api"
	"github.com/cmars/broadside/protocol"
	"github.com/cmars/broadside/random"
	"github.com/cmars/broadside/referee"
	"github.com/cmars/broadside/target"
)

func usage() {
	fmt.Fprintln(os.Stderr, `broadside: battleship targeting engine

Commands:
  serve    [-addr :3000]                    HTTP and websocket host
  stdio    [-engine target|random]          line protocol on stdin/stdout
  selfplay [-games N] [-workers N] [-width W] [-height H] [-ships 4,3,3,2,2,2,1,1,1,1]
           [-engine target|random] [-ai ./exe] [-max-shots N]

Every command accepts -seed and -log-level.`)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	cfg, err := loadConfig()
	if err != nil {
		log.Fatal("cannot load config", "err", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch os.Args[1] {
	case "serve":
		err = cmdServe(ctx, cfg, os.Args[2:])
	case "stdio":
		err = cmdStdio(ctx, cfg, os.Args[2:])
	case "selfplay":
		err = cmdSelfplay(ctx, cfg, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal(os.Args[1]+" failed", "err", err)
	}
}

func commonFlags(fs *flag.FlagSet, cfg *config) {
	fs.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "random seed, 0 for a fresh one")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
}

// engineFactory returns a constructor for the named engine. Engines built
// from a non-zero seed are reproducible; the i-th engine gets seed+i.
func engineFactory(name string, seed uint64, logger *log.Logger) (func(i uint64) api.Engine, error) {
	seedFor := func(i uint64) uint64 {
		if seed == 0 {
			return target.NewSeed()
		}
		return seed + i
	}
	switch name {
	case "target":
		return func(i uint64) api.Engine {
			return target.New(target.WithSeed(seedFor(i)), target.WithLogger(logger))
		}, nil
	case "random":
		return func(i uint64) api.Engine { return random.New(seedFor(i)) }, nil
	}
	return nil, fmt.Errorf("unknown engine %q", name)
}

// sequence turns an indexed factory into the plain constructor hosts expect.
func sequence(newEngine func(i uint64) api.Engine) func() api.Engine {
	var mu sync.Mutex
	var next uint64
	return func() api.Engine {
		mu.Lock()
		i := next
		next++
		mu.Unlock()
		return newEngine(i)
	}
}

func cmdServe(ctx context.Context, cfg config, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	commonFlags(fs, &cfg)
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	_ = fs.Parse(args)

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	for _, name := range []string{"target", "random"} {
		factory, err := engineFactory(name, cfg.Seed, logger)
		if err != nil {
			return err
		}
		newEngine := sequence(factory)
		engineLogger := logger.With("engine", name)
		r.Get("/"+name+"/ws", protocol.WebSocketHandler(newEngine, engineLogger))
		r.Mount("/"+name, api.Router(newEngine, engineLogger))
	}

	srv := &http.Server{Addr: cfg.Addr, Handler: r}
	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()
	logger.Info("listening", "addr", cfg.Addr)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func cmdStdio(ctx context.Context, cfg config, args []string) error {
	fs := flag.NewFlagSet("stdio", flag.ExitOnError)
	commonFlags(fs, &cfg)
	engine := fs.String("engine", "target", "target or random")
	_ = fs.Parse(args)

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	factory, err := engineFactory(*engine, cfg.Seed, logger)
	if err != nil {
		return err
	}
	return protocol.Serve(ctx, protocol.NewLinePort(os.Stdin, os.Stdout), sequence(factory), logger)
}

func parseShips(s string) ([]int, error) {
	var ships []int
	for _, f := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid ship length %q", f)
		}
		ships = append(ships, n)
	}
	return ships, nil
}

func checkSelfplayFlags(games, workers int) error {
	if games < 1 {
		return fmt.Errorf("-games must be at least 1, got %d", games)
	}
	if workers < 1 {
		return fmt.Errorf("-workers must be at least 1, got %d", workers)
	}
	return nil
}

type selfplayTask struct {
	game int
}

type selfplayResult struct {
	game int
	res  referee.Result
	err  error
}

func cmdSelfplay(ctx context.Context, cfg config, args []string) error {
	fs := flag.NewFlagSet("selfplay", flag.ExitOnError)
	commonFlags(fs, &cfg)
	games := fs.Int("games", 100, "number of matches")
	workers := fs.Int("workers", runtime.NumCPU(), "concurrent matches")
	width := fs.Int("width", 10, "board width")
	height := fs.Int("height", 10, "board height")
	shipsFlag := fs.String("ships", "4,3,3,2,2,2,1,1,1,1", "comma separated ship lengths")
	engine := fs.String("engine", "target", "target or random")
	aiPath := fs.String("ai", "", "external AI executable, overrides -engine")
	maxShots := fs.Int("max-shots", 0, "abandon a match after this many shots, 0 for no limit")
	_ = fs.Parse(args)
	if err := checkSelfplayFlags(*games, *workers); err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	ships, err := parseShips(*shipsFlag)
	if err != nil {
		return err
	}
	factory, err := engineFactory(*engine, cfg.Seed, logger)
	if err != nil {
		return err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = target.NewSeed()
	}
	logger.Info("self-play", "games", *games, "workers", *workers, "engine", *engine, "ai", *aiPath, "seed", seed)

	tasks := make(chan selfplayTask, *games)
	results := make(chan selfplayResult, *games)

	var wg sync.WaitGroup
	for w := 0; w < *workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var player referee.Player
			if *aiPath != "" {
				player = referee.NewProcessPlayer(*aiPath, logger)
				defer player.Close()
			}
			for task := range tasks {
				rng := rand.New(rand.NewPCG(seed, uint64(task.game)))
				board, err := referee.RandomFleet(rng, *width, *height, ships)
				if err != nil {
					results <- selfplayResult{game: task.game, err: err}
					continue
				}
				p := player
				if p == nil {
					p = referee.EnginePlayer{Engine: factory(uint64(task.game))}
				}
				res, err := referee.Play(ctx, p, board, *maxShots)
				results <- selfplayResult{game: task.game, res: res, err: err}
			}
		}()
	}

	go func() {
		for i := 0; i < *games; i++ {
			tasks <- selfplayTask{game: i}
		}
		close(tasks)
	}()

	var played, failed, total int
	minShots, maxSeen := 0, 0
	for i := 0; i < *games; i++ {
		r := <-results
		if r.err != nil {
			failed++
			logger.Warn("match failed", "game", r.game, "shots", r.res.Shots, "err", r.err)
			continue
		}
		played++
		total += r.res.Shots
		if played == 1 || r.res.Shots < minShots {
			minShots = r.res.Shots
		}
		maxSeen = max(maxSeen, r.res.Shots)
		logger.Debug("match finished", "game", r.game, "shots", r.res.Shots)
	}
	wg.Wait()

	if played == 0 {
		return fmt.Errorf("all %d matches failed", failed)
	}
	fmt.Printf("matches: %d, failed: %d, shots mean: %.2f, min: %d, max: %d\n",
		played, failed, float64(total)/float64(played), minShots, maxSeen)
	return nil
}
