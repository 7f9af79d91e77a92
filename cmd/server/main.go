// File: cmd/server/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"text/tabwriter"
	"time"

	"arta_auction_backend/internal/auction"
	"arta_auction_backend/internal/chain"
	"arta_auction_backend/internal/config"
	"arta_auction_backend/internal/jobs"
	"arta_auction_backend/internal/platform/database"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const listAllPageSize = 1 << 30

// tools is what the CLI subcommands operate on.
type tools struct {
	Logger   *zap.Logger
	Auctions auction.Service
	Index    auction.SearchIndex
	SyncJob  *jobs.AuctionSyncJob
}

func main() {
	if len(os.Args) > 1 {
		var err error
		switch os.Args[1] {
		case "wallet-info":
			err = runWalletInfo(os.Args[2:], os.Stdout)
		case "list-auctions":
			err = runListAuctions(os.Args[2:], os.Stdout)
		case "sync-auctions":
			err = runSyncAuctions(os.Args[2:])
		case "serve":
			startServer()
			return
		default:
			log.Fatalf("FATAL: unknown command %q (expected serve, wallet-info, list-auctions or sync-auctions)", os.Args[1])
		}
		if err != nil {
			log.Fatalf("FATAL: %s: %v", os.Args[1], err)
		}
		return
	}

	// Default: Start server
	startServer()
}

// preparer is the startup step that migrates and seeds before serving.
type preparer interface {
	Prepare(ctx context.Context) error
}

func mustPrepare(p preparer, cleanup func()) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err := p.Prepare(ctx)
	cancel()
	if err != nil {
		cleanup()
		log.Fatalf("FATAL: Failed to prepare database: %v", err)
	}
}

func startServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	server, cleanup, err := initializeServer(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize server: %v", err)
	}
	defer cleanup()

	mustPrepare(server, cleanup)

	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: Server failed to start or crashed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Printf("INFO: Received signal '%s'. Shutting down server...", sig)

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ServerTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: Server forced to shutdown due to error: %v", err)
	} else {
		log.Println("INFO: Server shutdown complete.")
	}
	log.Println("INFO: Application exiting.")
}

// provideDatabase opens the GORM connection and pairs it with a close func for Wire.
func provideDatabase(cfg *config.Config, logger *zap.Logger) (*gorm.DB, func(), error) {
	db, err := database.NewGORM(cfg)
	if err != nil {
		return nil, nil, err
	}
	return db, func() {
		database.CloseGORMDB(db)
		if err := logger.Sync(); err != nil {
			log.Printf("ERROR: Failed to sync logger during cleanup: %v", err)
		}
	}, nil
}

func provideAuctionCache(cfg *config.Config) *auction.Cache {
	return auction.NewCache(cfg.AuctionCacheTTL)
}

func loadTools() (*tools, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading configuration: %w", err)
	}
	return initializeTools(cfg)
}

// runWalletInfo prints the operator account and fails when its balance is below -min-balance.
func runWalletInfo(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("wallet-info", flag.ExitOnError)
	minBalance := fs.String("min-balance", "0", "Minimum native balance required, e.g. 0.1")
	if err := fs.Parse(args); err != nil {
		return err
	}
	minWei, err := chain.ParseEther(*minBalance)
	if err != nil {
		return fmt.Errorf("invalid -min-balance: %w", err)
	}

	t, cleanup, err := loadTools()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	wallet, err := t.Auctions.OperatorWallet(ctx)
	if err != nil {
		return err
	}
	return checkWallet(out, wallet, minWei)
}

func checkWallet(out io.Writer, wallet *auction.OperatorWallet, minWei *big.Int) error {
	fmt.Fprintf(out, "Operator address: %s\n", wallet.Address)
	fmt.Fprintf(out, "Balance: %s %s\n", wallet.Balance, wallet.Symbol)

	balance, ok := new(big.Int).SetString(wallet.BalanceWei, 10)
	if !ok {
		return fmt.Errorf("unreadable balance %q", wallet.BalanceWei)
	}
	if balance.Cmp(minWei) < 0 {
		return fmt.Errorf("insufficient balance: have %s %s, need at least %s %s",
			wallet.Balance, wallet.Symbol, chain.FormatEther(minWei), wallet.Symbol)
	}
	return nil
}

// runListAuctions prints the auctions read from chain as a table.
func runListAuctions(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("list-auctions", flag.ExitOnError)
	status := fs.String("status", auction.StatusAll, "Which auctions to list: live, past or all")
	if err := fs.Parse(args); err != nil {
		return err
	}

	t, cleanup, err := loadTools()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	list, _, err := t.Auctions.ListAuctions(ctx, auction.ListFilter{Status: *status, Page: 1, PageSize: listAllPageSize})
	if err != nil {
		return err
	}
	return printAuctions(out, list, time.Now())
}

func printAuctions(out io.Writer, list []auction.Auction, now time.Time) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tITEM\tSELLER\tHIGHEST BID\tHIGHEST BIDDER\tSTATUS\tTIME LEFT")
	for i := range list {
		a := &list[i]
		bidder := "-"
		if a.HasBids() {
			bidder = a.HighestBidder
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			strconv.FormatUint(a.ID, 10), a.Item, a.Seller, chain.FormatEther(a.HighestBid), bidder, a.Status(now), a.TimeLeft(now))
	}
	return w.Flush()
}

// runSyncAuctions refreshes the snapshot from chain and bulk-indexes it into Elasticsearch.
func runSyncAuctions(args []string) error {
	fs := flag.NewFlagSet("sync-auctions", flag.ExitOnError)
	batchSize := fs.Int("batch-size", 100, "Documents per bulk request")
	esRefresh := fs.Bool("es-refresh", false, "Refresh the index after each bulk request")
	if err := fs.Parse(args); err != nil {
		return err
	}

	t, cleanup, err := loadTools()
	if err != nil {
		return err
	}
	defer cleanup()

	if t.Index == nil {
		return errors.New("ELASTICSEARCH_URL is not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	if err := t.Index.EnsureIndex(ctx); err != nil {
		return err
	}

	t.Logger.Info("Starting auction synchronization to Elasticsearch...",
		zap.Int("batchSize", *batchSize),
		zap.Bool("esRefresh", *esRefresh),
	)
	n, err := t.SyncJob.Sync(ctx, jobs.SyncOptions{BatchSize: *batchSize, RefreshIndex: *esRefresh})
	if err != nil {
		return err
	}
	t.Logger.Info("Auction synchronization completed successfully.", zap.Int("auctions", n))
	return nil
}
