package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"github.com/slighter12/go-lib/database/postgres"
)

const (
	defaultPath               = "."
	defaultMaxRequestBodySize = "100KB"
	defaultAccessTokenTTL     = 24 * time.Hour

	defaultStorageDriver      = StorageDriverMemory
	defaultRadiusMeters       = 5000
	defaultMaxAdjacentRegions = 2
	defaultDomainTerm         = "골프 레슨"
	defaultSearchTimeout      = 30 * time.Second
	defaultSessionTTL         = 30 * time.Minute
	defaultKakaoTimeout       = 5 * time.Second
	defaultKakaoLocalBaseURL  = "https://dapi.kakao.com"
	defaultKakaoUserBaseURL   = "https://kapi.kakao.com"
	defaultQRCodeSize         = 256
	defaultWorkerPort         = 8081
)

// Storage drivers for the per-owner document store.
const (
	StorageDriverMemory   = "memory"
	StorageDriverSQLite   = "sqlite"
	StorageDriverPostgres = "postgres"
)

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port               int    `json:"port" yaml:"port"`
		MaxRequestBodySize string `json:"maxRequestBodySize" yaml:"maxRequestBodySize"`

		// AllowOrigins lists the CORS origins of the web client; empty allows any
		AllowOrigins []string `json:"allowOrigins" yaml:"allowOrigins"`

		Timeouts struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
	} `json:"http" yaml:"http"`

	Postgres *postgres.DBConn `json:"postgres" yaml:"postgres" mapstructure:"postgres"`

	SecretKey struct {
		Access    string        `json:"access" yaml:"access"`
		AccessTTL time.Duration `json:"accessTtl" yaml:"accessTtl"`
	} `json:"secretKey" yaml:"secretKey"`

	// Storage selects the document store backing addresses, cart and login state
	Storage *StorageConfig `json:"storage" yaml:"storage"`

	// Kakao configures the map and login REST APIs
	Kakao *KakaoConfig `json:"kakao" yaml:"kakao"`

	// Search tunes the lesson search pipeline
	Search *SearchConfig `json:"search" yaml:"search"`

	// Regions points at the static region boundary dataset
	Regions *RegionsConfig `json:"regions" yaml:"regions"`

	// PubSub configuration for event publishing
	PubSub *PubSubConfig `json:"pubsub" yaml:"pubsub"`

	// QRCode configuration for lesson share QR codes
	QRCode *QRCodeConfig `json:"qrcode" yaml:"qrcode"`

	// Worker configures the checkout push worker
	Worker *WorkerConfig `json:"worker" yaml:"worker"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// StorageConfig defines the document store backend
type StorageConfig struct {
	// Driver is one of memory, sqlite or postgres
	Driver string `json:"driver" yaml:"driver"`

	// SQLitePath is the database file for the sqlite driver
	SQLitePath string `json:"sqlitePath" yaml:"sqlitePath"`
}

// KakaoConfig defines the Kakao REST API configuration
type KakaoConfig struct {
	RestAPIKey   string        `json:"restApiKey" yaml:"restApiKey"`
	LocalBaseURL string        `json:"localBaseUrl" yaml:"localBaseUrl"`
	UserBaseURL  string        `json:"userBaseUrl" yaml:"userBaseUrl"`
	Timeout      time.Duration `json:"timeout" yaml:"timeout"`
}

// SearchConfig defines the lesson search parameters
type SearchConfig struct {
	// Places search radius around the origin
	RadiusMeters int `json:"radiusMeters" yaml:"radiusMeters"`

	// Number of touching regions suggested next to the origin's region
	MaxAdjacentRegions int `json:"maxAdjacentRegions" yaml:"maxAdjacentRegions"`

	// Appended to the category label to build the places keyword
	DomainTerm string `json:"domainTerm" yaml:"domainTerm"`

	// Upper bound for one search; zero disables the bound
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// How long finished search sessions stay readable
	SessionTTL time.Duration `json:"sessionTtl" yaml:"sessionTtl"`
}

// RegionsConfig defines where the region GeoJSON is read from
type RegionsConfig struct {
	// BucketURL is a gocloud blob URL, e.g. file:///srv/data or gs://bucket
	BucketURL string `json:"bucketUrl" yaml:"bucketUrl"`

	// Key is the object name of the GeoJSON feature collection
	Key string `json:"key" yaml:"key"`
}

// QRCodeConfig defines QR code generation configuration
type QRCodeConfig struct {
	Size                 int    `json:"size" yaml:"size"`
	ErrorCorrectionLevel string `json:"errorCorrectionLevel" yaml:"errorCorrectionLevel"`
	BaseURL              string `json:"baseUrl" yaml:"baseUrl"`
}

// WorkerConfig defines the checkout worker's push endpoint
type WorkerConfig struct {
	Port int `json:"port" yaml:"port"`

	// VerifyPushAuth checks the Google-signed OIDC token on every push
	VerifyPushAuth bool `json:"verifyPushAuth" yaml:"verifyPushAuth"`

	// Audience expected in the push token; empty uses the request URL
	Audience string `json:"audience" yaml:"audience"`
}

// PubSubConfig defines Pub/Sub configuration for event publishing
type PubSubConfig struct {
	// Provider type: "noop", "local" for local HTTP or "google" for Google Pub/Sub
	Provider string `json:"provider" yaml:"provider"`

	// Google Cloud project ID (for google provider)
	ProjectID string `json:"projectId" yaml:"projectId"`

	// Pub/Sub topic ID (for google provider)
	TopicID string `json:"topicId" yaml:"topicId"`

	// Service account key file; empty uses application default credentials
	CredentialsFile string `json:"credentialsFile" yaml:"credentialsFile"`

	// Local HTTP endpoint for development (for local provider)
	LocalEndpoint string `json:"localEndpoint" yaml:"localEndpoint"`
}

// LoadWithEnv loads .yaml files through koanf.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	// Build list of paths to search for config file
	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			abs := filepath.Join(pwd, path)
			searchPaths = append(searchPaths, abs)
		}
	}

	// Try to find and load the config file
	var configFile string
	var found bool
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
			found = true

			break
		}
	}

	if !found {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	// Load YAML config file
	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	// Load environment variables
	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			// Convert ENV_VAR_NAME to path and align each segment with existing YAML keys.
			// Example: POSTGRES_SSLMODE -> postgres.sslMode (not postgres.sslmode)
			key := canonicalizeEnvKey(k, existingConfigMap)

			return key, v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	// Unmarshal into the config struct (case-insensitive to match env vars)
	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			MatchName: func(mapKey, fieldName string) bool {
				// Case-insensitive matching for env var overrides
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

func New() (*Config, error) {
	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	if cfg.Postgres != nil {
		// Build replicas from environment variables (POSTGRES_REPLICAS_0_HOST, POSTGRES_REPLICAS_0_PORT, etc.)
		cfg.Postgres.Replicas = buildReplicasFromEnv()
	}

	return cfg, nil
}

// applyDefaults fills every optional section so consumers never see nil.
func (cfg *Config) applyDefaults() {
	if strings.TrimSpace(cfg.HTTP.MaxRequestBodySize) == "" {
		cfg.HTTP.MaxRequestBodySize = defaultMaxRequestBodySize
	}
	if cfg.SecretKey.AccessTTL <= 0 {
		cfg.SecretKey.AccessTTL = defaultAccessTokenTTL
	}

	if cfg.Storage == nil {
		cfg.Storage = &StorageConfig{}
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = defaultStorageDriver
	}

	if cfg.Kakao == nil {
		cfg.Kakao = &KakaoConfig{}
	}
	if cfg.Kakao.LocalBaseURL == "" {
		cfg.Kakao.LocalBaseURL = defaultKakaoLocalBaseURL
	}
	if cfg.Kakao.UserBaseURL == "" {
		cfg.Kakao.UserBaseURL = defaultKakaoUserBaseURL
	}
	if cfg.Kakao.Timeout <= 0 {
		cfg.Kakao.Timeout = defaultKakaoTimeout
	}

	if cfg.Search == nil {
		cfg.Search = &SearchConfig{}
	}
	cfg.Search.ApplyDefaults()

	if cfg.Regions == nil {
		cfg.Regions = &RegionsConfig{}
	}

	if cfg.PubSub == nil {
		cfg.PubSub = &PubSubConfig{Provider: "noop"}
	}

	if cfg.QRCode == nil {
		cfg.QRCode = &QRCodeConfig{}
	}
	if cfg.QRCode.Size <= 0 {
		cfg.QRCode.Size = defaultQRCodeSize
	}

	if cfg.Worker == nil {
		cfg.Worker = &WorkerConfig{}
	}
	if cfg.Worker.Port <= 0 {
		cfg.Worker.Port = defaultWorkerPort
	}
}

// ApplyDefaults fills zero values. A negative Timeout means no bound.
func (s *SearchConfig) ApplyDefaults() {
	if s.RadiusMeters <= 0 {
		s.RadiusMeters = defaultRadiusMeters
	}
	if s.MaxAdjacentRegions <= 0 {
		s.MaxAdjacentRegions = defaultMaxAdjacentRegions
	}
	if strings.TrimSpace(s.DomainTerm) == "" {
		s.DomainTerm = defaultDomainTerm
	}
	if s.Timeout == 0 {
		s.Timeout = defaultSearchTimeout
	}
	if s.SessionTTL <= 0 {
		s.SessionTTL = defaultSessionTTL
	}
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}

// buildReplicasFromEnv builds the replicas slice from environment variables.
// Environment variable format: POSTGRES_REPLICAS_{index}_{field}
// Example: POSTGRES_REPLICAS_0_HOST, POSTGRES_REPLICAS_0_PORT, POSTGRES_REPLICAS_0_USERNAME, POSTGRES_REPLICAS_0_PASSWORD
func buildReplicasFromEnv() []postgres.ConnectionConfig {
	var replicas []postgres.ConnectionConfig

	for i := 0; ; i++ {
		prefix := "POSTGRES_REPLICAS_" + strconv.Itoa(i) + "_"

		host := os.Getenv(prefix + "HOST")
		port := os.Getenv(prefix + "PORT")
		if host == "" || port == "" {
			// No more replicas or incomplete configuration.
			break
		}

		replica := postgres.ConnectionConfig{
			Host:     host,
			Port:     port,
			UserName: os.Getenv(prefix + "USERNAME"),
			Password: os.Getenv(prefix + "PASSWORD"),
		}

		replicas = append(replicas, replica)
	}

	return replicas
}
