package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/portal-hq/portalex/internal/util"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	BalanceStoreMemory   = "memory"
	BalanceStorePostgres = "postgres"

	DatabaseMigrationTable  = "migrations"
	DefaultDerivationPath   = "m/44'/60'/0'/0/0"
	DefaultServiceName      = "portalex"
	DefaultNetwork          = "sepolia"
	defaultGasLimit         = 21000
	defaultFeePremium       = 200
	defaultFeeEscalation    = 20
	defaultMaxAttempts      = 10
	defaultRetryDelay       = 2 * time.Second
	defaultFeeFloorGwei     = "25"
	defaultInitAmount       = "0.01"
	defaultShutdownDeadline = 10 * time.Second
)

var (
	DatabaseMigrationFolder = filepath.Join(util.GetProjectRootDir(), "/migrations")
)

type EchoServer struct {
	Debug                          bool
	ListenAddress                  string
	HideInternalServerErrorDetails bool
	BaseURL                        string
	EnableRequestIDMiddleware      bool
	EnableRecoverMiddleware        bool
	EnableLoggerMiddleware         bool
	EnableMetricsMiddleware        bool
	ShutdownTimeout                time.Duration
}

type LoggerServer struct {
	Level              zerolog.Level
	RequestLevel       zerolog.Level
	LogRequestBody     bool
	LogResponseBody    bool
	PrettyPrintConsole bool
}

// HotWallet 热钱包密钥材料
// 私钥与助记词二选一；都为空时启动时随机生成
type HotWallet struct {
	Address        string
	PrivateKey     string `json:"-"` // sensitive
	Mnemonic       string `json:"-"` // sensitive
	Passphrase     string `json:"-"` // sensitive
	DerivationPath string
	// 设置后生成的钱包会加密保存到该文件，重启时从文件恢复
	KeystoreFile     string
	KeystorePassword string `json:"-"` // sensitive
}

type Transfer struct {
	FeePremiumPercent    int64
	FeeEscalationPercent int64
	FeeFloorGwei         decimal.Decimal
	GasLimit             uint64
	NonceLevel           string
	MaxAttempts          int
	RetryDelay           time.Duration
	InitAmount           decimal.Decimal
}

type Chain struct {
	DefaultNetwork string
	RPCURLs        []string
	AlchemyAPIKey  string `json:"-"` // sensitive
	NetworksFile   string
	Networks       []Network `json:",omitempty"`
}

type BalanceCache struct {
	Store string
}

type Server struct {
	Database     Database
	Echo         EchoServer
	Logger       LoggerServer
	HotWallet    HotWallet
	Transfer     Transfer
	Chain        Chain
	BalanceCache BalanceCache
}

// DefaultServiceConfigFromEnv returns the server config as parsed from environment variables
// and their respective defaults defined below.
// We don't expect that ENV_VARs change while we are running our application or our tests
// (and it would be a bad thing to do anyways with parallel testing).
// Tests override values through t.Setenv only.
func DefaultServiceConfigFromEnv() Server {
	// An `.env.local` file in your project root can override the currently set ENV variables.
	//
	// We never automatically apply `.env.local` when running "go test" as these ENV variables
	// may be sensitive (e.g. secrets to external APIs) and applying them modifies the process-global "os.Env" state.
	if !util.RunningInTest() {
		DotEnvTryLoad(filepath.Join(util.GetProjectRootDir(), ".env.local"), os.Setenv)
	}

	cfg := Server{
		Database: Database{
			Host:     util.GetEnv("PGHOST", "postgres"),
			Port:     util.GetEnvAsInt("PGPORT", 5432),
			Database: util.GetEnv("PGDATABASE", "development"),
			Username: util.GetEnv("PGUSER", "dbuser"),
			Password: util.GetEnv("PGPASSWORD", ""),
			AdditionalParams: map[string]string{
				"sslmode": util.GetEnv("PGSSLMODE", "disable"),
			},
			MaxOpenConns:    util.GetEnvAsInt("DB_MAX_OPEN_CONNS", util.GetEnvAsInt("GOMAXPROCS", 2)*2),
			MaxIdleConns:    util.GetEnvAsInt("DB_MAX_IDLE_CONNS", 1),
			ConnMaxLifetime: util.GetEnvAsDuration("DB_CONN_MAX_LIFETIME", 60*time.Second),
		},
		Echo: EchoServer{
			Debug:                          util.GetEnvAsBool("SERVER_ECHO_DEBUG", false),
			ListenAddress:                  util.GetEnv("SERVER_ECHO_LISTEN_ADDRESS", ":3000"),
			HideInternalServerErrorDetails: util.GetEnvAsBool("SERVER_ECHO_HIDE_INTERNAL_SERVER_ERROR_DETAILS", true),
			BaseURL:                        util.GetEnv("SERVER_ECHO_BASE_URL", "http://localhost:3000"),
			EnableRequestIDMiddleware:      util.GetEnvAsBool("SERVER_ECHO_ENABLE_REQUEST_ID_MIDDLEWARE", true),
			EnableRecoverMiddleware:        util.GetEnvAsBool("SERVER_ECHO_ENABLE_RECOVER_MIDDLEWARE", true),
			EnableLoggerMiddleware:         util.GetEnvAsBool("SERVER_ECHO_ENABLE_LOGGER_MIDDLEWARE", true),
			EnableMetricsMiddleware:        util.GetEnvAsBool("SERVER_ECHO_ENABLE_METRICS_MIDDLEWARE", true),
			ShutdownTimeout:                util.GetEnvAsDuration("SERVER_ECHO_SHUTDOWN_TIMEOUT", defaultShutdownDeadline),
		},
		Logger: LoggerServer{
			Level:              util.LogLevelFromString(util.GetEnv("SERVER_LOGGER_LEVEL", zerolog.DebugLevel.String())),
			RequestLevel:       util.LogLevelFromString(util.GetEnv("SERVER_LOGGER_REQUEST_LEVEL", zerolog.DebugLevel.String())),
			LogRequestBody:     util.GetEnvAsBool("SERVER_LOGGER_LOG_REQUEST_BODY", false),
			LogResponseBody:    util.GetEnvAsBool("SERVER_LOGGER_LOG_RESPONSE_BODY", false),
			PrettyPrintConsole: util.GetEnvAsBool("SERVER_LOGGER_PRETTY_PRINT_CONSOLE", false),
		},
		HotWallet: HotWallet{
			Address:          util.GetEnv("EXCHANGE_WALLET_ADDRESS", ""),
			PrivateKey:       util.GetEnv("EXCHANGE_WALLET_PRIVATE_KEY", ""),
			Mnemonic:         util.GetEnv("EXCHANGE_WALLET_MNEMONIC", ""),
			Passphrase:       util.GetEnv("EXCHANGE_WALLET_PASSPHRASE", ""),
			DerivationPath:   util.GetEnv("EXCHANGE_WALLET_DERIVATION_PATH", DefaultDerivationPath),
			KeystoreFile:     util.GetEnv("EXCHANGE_WALLET_KEYSTORE_FILE", ""),
			KeystorePassword: util.GetEnv("EXCHANGE_WALLET_KEYSTORE_PASSWORD", ""),
		},
		Transfer: Transfer{
			FeePremiumPercent:    util.GetEnvAsInt64("TRANSFER_FEE_PREMIUM_PERCENT", defaultFeePremium),
			FeeEscalationPercent: util.GetEnvAsInt64("TRANSFER_FEE_ESCALATION_PERCENT", defaultFeeEscalation),
			FeeFloorGwei:         getEnvAsDecimal("TRANSFER_FEE_FLOOR_GWEI", defaultFeeFloorGwei),
			GasLimit:             util.GetEnvAsUint64("TRANSFER_GAS_LIMIT", defaultGasLimit),
			NonceLevel:           util.GetEnvEnum("TRANSFER_NONCE_LEVEL", "pending", []string{"latest", "pending"}),
			MaxAttempts:          util.GetEnvAsInt("TRANSFER_MAX_ATTEMPTS", defaultMaxAttempts),
			RetryDelay:           util.GetEnvAsDuration("TRANSFER_RETRY_DELAY", defaultRetryDelay),
			InitAmount:           getEnvAsDecimal("INIT_AMOUNT", defaultInitAmount),
		},
		Chain: Chain{
			DefaultNetwork: util.GetEnv("ETH_NETWORK", DefaultNetwork),
			RPCURLs:        util.GetEnvAsStringArr("ETH_RPC_URL", nil),
			AlchemyAPIKey:  util.GetEnv("ALCHEMY_API_KEY", ""),
			NetworksFile:   util.GetEnv("NETWORKS_CONFIG_FILE", ""),
		},
		BalanceCache: BalanceCache{
			Store: util.GetEnvEnum("BALANCE_CACHE_STORE", BalanceStoreMemory, []string{BalanceStoreMemory, BalanceStorePostgres}),
		},
	}

	if cfg.Chain.NetworksFile != "" {
		networks, err := LoadNetworksFile(cfg.Chain.NetworksFile)
		if err != nil {
			log.Panic().Err(err).Str("file", cfg.Chain.NetworksFile).Msg("Failed to load networks file")
		}
		cfg.Chain.Networks = networks
	}

	return cfg
}

func getEnvAsDecimal(key string, defaultVal string) decimal.Decimal {
	strVal := util.GetEnv(key, defaultVal)

	val, err := decimal.NewFromString(strVal)
	if err != nil {
		log.Warn().Str("key", key).Str("value", strVal).Msg("Invalid decimal env var, using default")
		return decimal.RequireFromString(defaultVal)
	}

	return val
}
