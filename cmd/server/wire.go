// File: cmd/server/wire.go
//go:build wireinject
// +build wireinject

package main

import (
	"arta_auction_backend/internal/app"
	"arta_auction_backend/internal/auction"
	"arta_auction_backend/internal/auth"
	"arta_auction_backend/internal/chain"
	"arta_auction_backend/internal/config"
	"arta_auction_backend/internal/contact"
	"arta_auction_backend/internal/jobs"
	"arta_auction_backend/internal/platform/elasticsearch"
	"arta_auction_backend/internal/platform/logger"
	"arta_auction_backend/internal/platform/mongodb"
	"arta_auction_backend/internal/user"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/google/wire"
)

var chainSet = wire.NewSet(
	chain.NewClient,
	chain.NewSigner,
	wire.Bind(new(auction.Backend), new(*ethclient.Client)),
)

var auctionSet = wire.NewSet(
	auction.NewContractGateway,
	wire.Bind(new(auction.Gateway), new(*auction.ContractGateway)),
	provideAuctionCache,
	elasticsearch.NewClient,
	auction.NewSearchIndex,
	auction.NewService,
	wire.Bind(new(auction.Service), new(*auction.ServiceImplementation)),
	wire.Bind(new(jobs.AuctionRefresher), new(*auction.ServiceImplementation)),
	jobs.NewAuctionSyncJob,
)

// initializeServer is the main Wire injector.
func initializeServer(cfg *config.Config) (*app.Server, func(), error) {
	wire.Build(
		// Platform Layer
		logger.New,
		provideDatabase,
		mongodb.NewDatabase,
		chainSet,

		auctionSet,
		auction.NewHandler,

		contact.NewRepository,
		contact.NewService,
		wire.Bind(new(contact.Service), new(*contact.ServiceImplementation)),
		contact.NewHandler,

		user.NewGORMRepository,
		wire.Bind(new(user.AuctionStats), new(*auction.ServiceImplementation)),
		wire.Bind(new(user.PendingRequestCounter), new(*contact.ServiceImplementation)),
		user.NewService,
		wire.Bind(new(user.Service), new(*user.ServiceImplementation)),
		user.NewHandler,

		auth.NewJWTService,
		auth.NewDefaultBlocklist,
		auth.NewHandler,

		// Application Layer
		app.NewServer,
	)
	return nil, nil, nil
}

// initializeTools wires the chain-facing pieces the CLI subcommands need.
func initializeTools(cfg *config.Config) (*tools, func(), error) {
	wire.Build(
		logger.New,
		chainSet,
		auctionSet,
		wire.Struct(new(tools), "*"),
	)
	return nil, nil, nil
}
