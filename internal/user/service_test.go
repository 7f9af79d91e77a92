package user

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"arta_auction_backend/internal/auction"
	"arta_auction_backend/internal/common"
	"arta_auction_backend/internal/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type mockAuctionStats struct {
	mock.Mock
}

func (m *mockAuctionStats) WalletStats(ctx context.Context, address string) (auction.WalletStats, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(auction.WalletStats), args.Error(1)
}

func (m *mockAuctionStats) CountActive(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type stubRequests struct{ open int64 }

func (s stubRequests) CountOpen(context.Context) (int64, error) { return s.open, nil }

func openTestDB(name string) (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}
	return db, db.AutoMigrate(&User{})
}

type UserServiceTestSuite struct {
	suite.Suite
	DB      *gorm.DB
	Repo    Repository
	Stats   *mockAuctionStats
	Cfg     *config.Config
	Service *ServiceImplementation
}

func (s *UserServiceTestSuite) SetupTest() {
	db, err := openTestDB("users_" + uuid.NewString())
	s.Require().NoError(err)
	s.DB = db
	s.Repo = NewGORMRepository(db)
	s.Stats = new(mockAuctionStats)
	s.Cfg = &config.Config{
		AdminEmail:    "Admin@Arta.io",
		AdminPassword: "adminpass",
		AdminUsername: "admin",
	}
	s.Service = NewService(s.Repo, s.Stats, stubRequests{open: 3}, s.Cfg, zap.NewNop())
}

func (s *UserServiceTestSuite) TearDownTest() {
	sqlDB, _ := s.DB.DB()
	sqlDB.Close()
}

func (s *UserServiceTestSuite) register(email string) *User {
	u, err := s.Service.Register(context.Background(), RegisterRequest{Username: "alice", Email: email, Password: "secret"})
	s.Require().NoError(err)
	return u
}

func (s *UserServiceTestSuite) TestRegister_LowercasesEmailAndHashesPassword() {
	u := s.register("Alice@Example.COM")

	s.Equal("alice@example.com", u.Email)
	s.Equal(common.RoleUser, u.Role)
	s.NotEqual("secret", u.PasswordHash)
	s.True(common.CheckPasswordHash("secret", u.PasswordHash))
	s.NotEqual(uuid.Nil, u.ID)
}

func (s *UserServiceTestSuite) TestRegister_DuplicateEmailConflicts() {
	s.register("alice@example.com")

	_, err := s.Service.Register(context.Background(), RegisterRequest{Username: "x", Email: "ALICE@example.com", Password: "other"})
	s.Require().Error(err)
	s.True(errors.Is(err, common.ErrConflict))
}

func (s *UserServiceTestSuite) TestAuthenticate() {
	s.register("alice@example.com")

	u, err := s.Service.Authenticate(context.Background(), "alice@example.com", "secret")
	s.Require().NoError(err)
	s.NotNil(u.LastLoginAt)

	_, err = s.Service.Authenticate(context.Background(), "alice@example.com", "wrong")
	s.True(errors.Is(err, common.ErrUnauthorized))

	_, err = s.Service.Authenticate(context.Background(), "nobody@example.com", "secret")
	s.True(errors.Is(err, common.ErrUnauthorized))
}

func (s *UserServiceTestSuite) TestLinkWallet() {
	alice := s.register("alice@example.com")
	bob, err := s.Service.Register(context.Background(), RegisterRequest{Username: "bob", Email: "bob@example.com", Password: "secret"})
	s.Require().NoError(err)

	addr := "0xAbCdEf0123456789aBcDeF0123456789AbCdEf01"
	linked, err := s.Service.LinkWallet(context.Background(), alice.ID, addr)
	s.Require().NoError(err)
	s.Require().NotNil(linked.WalletAddress)
	s.Equal("0xabcdef0123456789abcdef0123456789abcdef01", *linked.WalletAddress)

	// Relinking to the same owner is fine.
	_, err = s.Service.LinkWallet(context.Background(), alice.ID, addr)
	s.NoError(err)

	_, err = s.Service.LinkWallet(context.Background(), bob.ID, addr)
	s.True(errors.Is(err, common.ErrConflict))

	_, err = s.Service.LinkWallet(context.Background(), bob.ID, "not-an-address")
	s.True(errors.Is(err, common.ErrBadRequest))
}

func (s *UserServiceTestSuite) TestGetProfileByWallet_Unregistered() {
	addr := "0x1111111111111111111111111111111111111111"
	s.Stats.On("WalletStats", mock.Anything, addr).
		Return(auction.WalletStats{Participated: 2, Won: 1, Leading: 1}, nil).Once()

	profile, err := s.Service.GetProfileByWallet(context.Background(), addr)
	s.Require().NoError(err)

	s.False(profile.Registered)
	s.Equal(common.RoleUser, profile.Role)
	s.Equal(2, profile.AuctionsParticipated)
	s.Equal(1, profile.AuctionsWon)
	s.Nil(profile.TotalUsers)
	s.Stats.AssertExpectations(s.T())
}

func (s *UserServiceTestSuite) TestGetProfileByWallet_AdminGetsAggregates() {
	admin, err := s.Service.EnsureAdmin(context.Background())
	s.Require().NoError(err)
	addr := "0x2222222222222222222222222222222222222222"
	_, err = s.Service.LinkWallet(context.Background(), admin.ID, addr)
	s.Require().NoError(err)

	s.Stats.On("WalletStats", mock.Anything, addr).Return(auction.WalletStats{Selling: 4}, nil)
	s.Stats.On("CountActive", mock.Anything).Return(5, nil)

	profile, err := s.Service.GetProfileByWallet(context.Background(), addr)
	s.Require().NoError(err)

	s.True(profile.Registered)
	s.Equal(common.RoleAdmin, profile.Role)
	s.Equal("admin", profile.Username)
	s.Equal(4, profile.AuctionsSelling)
	s.Require().NotNil(profile.TotalUsers)
	s.Equal(int64(1), *profile.TotalUsers)
	s.Require().NotNil(profile.ActiveAuctions)
	s.Equal(5, *profile.ActiveAuctions)
	s.Require().NotNil(profile.PendingRequests)
	s.Equal(int64(3), *profile.PendingRequests)
}

func (s *UserServiceTestSuite) TestGetProfileByWallet_StatsFailureIsSoft() {
	addr := "0x3333333333333333333333333333333333333333"
	s.Stats.On("WalletStats", mock.Anything, addr).Return(auction.WalletStats{}, errors.New("rpc down"))

	profile, err := s.Service.GetProfileByWallet(context.Background(), addr)
	s.Require().NoError(err)
	s.Zero(profile.AuctionsParticipated)
}

func (s *UserServiceTestSuite) TestEnsureAdmin_IdempotentAndPromotes() {
	first, err := s.Service.EnsureAdmin(context.Background())
	s.Require().NoError(err)
	second, err := s.Service.EnsureAdmin(context.Background())
	s.Require().NoError(err)
	s.Equal(first.ID, second.ID)

	count, err := s.Service.CountUsers(context.Background())
	s.Require().NoError(err)
	s.Equal(int64(1), count)

	// An existing plain user with the admin email is promoted.
	s.Cfg.AdminEmail = "carol@example.com"
	carol := s.register("carol@example.com")
	promoted, err := s.Service.EnsureAdmin(context.Background())
	s.Require().NoError(err)
	s.Equal(carol.ID, promoted.ID)
	s.Equal(common.RoleAdmin, promoted.Role)
}

func (s *UserServiceTestSuite) TestEnsureAdmin_NoopWithoutCredentials() {
	s.Cfg.AdminPassword = ""
	u, err := s.Service.EnsureAdmin(context.Background())
	s.NoError(err)
	s.Nil(u)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
