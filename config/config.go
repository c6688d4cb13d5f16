// Package config loads the engine configuration from <env>.yaml with
// environment-variable overrides.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const defaultPath = "."

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port     int `json:"port" yaml:"port"`
		Timeouts struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
	} `json:"http" yaml:"http"`

	// Store identity stamped onto transactions.
	Store StoreConfig `json:"store" yaml:"store"`

	// Pricing holds the tax schedule and the discount catalog.
	Pricing *PricingConfig `json:"pricing" yaml:"pricing"`

	// Shipping holds the delivery providers and the scorer's tunables.
	Shipping *ShippingConfig `json:"shipping" yaml:"shipping"`

	// Approval configures the approval gate.
	Approval *ApprovalConfig `json:"approval" yaml:"approval"`

	// Payment configures the payment-device collaborator.
	Payment *PaymentConfig `json:"payment" yaml:"payment"`

	// Catalog configures the product catalog collaborator.
	Catalog *CatalogConfig `json:"catalog" yaml:"catalog"`

	// Customers seeds the local customer directory.
	Customers []CustomerSeed `json:"customers" yaml:"customers"`

	// Snapshot configures the offline durability store.
	Snapshot *SnapshotConfig `json:"snapshot" yaml:"snapshot"`

	// Accounting configures the ERP sync collaborator.
	Accounting *AccountingConfig `json:"accounting" yaml:"accounting"`

	// Sync configures the connectivity watcher and reconciliation.
	Sync *SyncConfig `json:"sync" yaml:"sync"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// StoreConfig identifies the store and cashier session.
type StoreConfig struct {
	ID        string `json:"id" yaml:"id"`
	CashierID string `json:"cashierId" yaml:"cashierId"`
}

// TaxRuleConfig is one entry of the tax schedule.
type TaxRuleConfig struct {
	Name        string  `json:"name" yaml:"name"`
	Rate        float64 `json:"rate" yaml:"rate"`
	Description string  `json:"description" yaml:"description"`
}

// DiscountConfig is one named entry of the discount catalog.
type DiscountConfig struct {
	Code        string  `json:"code" yaml:"code"`
	Kind        string  `json:"kind" yaml:"kind"` // "percentage" or "fixed"
	Value       float64 `json:"value" yaml:"value"`
	Description string  `json:"description" yaml:"description"`
}

// PricingConfig holds all money-affecting reference data.
type PricingConfig struct {
	TaxRules        []TaxRuleConfig  `json:"taxRules" yaml:"taxRules"`
	DiscountCatalog []DiscountConfig `json:"discountCatalog" yaml:"discountCatalog"`
}

// ProviderConfig is one delivery provider entry.
type ProviderConfig struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Type     string `json:"type" yaml:"type"` // local, international or custom
	BaseRate float64 `json:"baseRate" yaml:"baseRate"`
	Enabled  bool   `json:"enabled" yaml:"enabled"`

	// ServiceAreas are named lon/lat rings; empty means everywhere.
	ServiceAreas []ServiceAreaConfig `json:"serviceAreas" yaml:"serviceAreas"`
}

// ServiceAreaConfig is a named polygon ring of [lon, lat] pairs.
type ServiceAreaConfig struct {
	Name string       `json:"name" yaml:"name"`
	Ring [][2]float64 `json:"ring" yaml:"ring"`
}

// ShippingConfig holds the provider list and the scorer constants.
type ShippingConfig struct {
	Providers []ProviderConfig `json:"providers" yaml:"providers"`

	PerItemWeight     float64 `json:"perItemWeight" yaml:"perItemWeight"`         // Weight-units per unit quantity.
	WeightSurcharge   float64 `json:"weightSurcharge" yaml:"weightSurcharge"`     // Currency-units per weight-unit.
	CostNormalization float64 `json:"costNormalization" yaml:"costNormalization"` // Divisor for normalized cost.
	CostWeight        float64 `json:"costWeight" yaml:"costWeight"`
	SpeedWeight       float64 `json:"speedWeight" yaml:"speedWeight"`
	SmartSelection    bool    `json:"smartSelection" yaml:"smartSelection"`
}

// ApprovalConfig configures approver verification and the magnitude gate.
type ApprovalConfig struct {
	// Verifier selects the credential backend: "directory" (bcrypt hashes)
	// or "jwt" (signed approval tokens).
	Verifier string `json:"verifier" yaml:"verifier"`

	// Directory maps approver ids to bcrypt credential hashes.
	Directory map[string]string `json:"directory" yaml:"directory"`

	// JWTSecret signs approval tokens for the jwt verifier.
	JWTSecret string `json:"jwtSecret" yaml:"jwtSecret"`

	// Threshold is the transaction magnitude above which the full gate is
	// mandatory for stock-adjustment style operations.
	Threshold float64 `json:"threshold" yaml:"threshold"`
}

// PaymentConfig tunes the simulated payment device.
type PaymentConfig struct {
	Latency time.Duration `json:"latency" yaml:"latency"` // Simulated processing time.
	Timeout time.Duration `json:"timeout" yaml:"timeout"` // Upper bound per payment attempt.
}

// ProductSeed is a catalog record used before the first remote fetch.
type ProductSeed struct {
	ID        string  `json:"id" yaml:"id"`
	Name      string  `json:"name" yaml:"name"`
	UnitPrice float64 `json:"unitPrice" yaml:"unitPrice"`
	UnitCost  float64 `json:"unitCost" yaml:"unitCost"`
	Stock     int     `json:"stock" yaml:"stock"`
}

// CatalogConfig configures the catalog collaborator.
type CatalogConfig struct {
	RemoteURL string        `json:"remoteUrl" yaml:"remoteUrl"`
	Seed      []ProductSeed `json:"seed" yaml:"seed"`
}

// CustomerSeed is one entry of the local customer directory.
type CustomerSeed struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email" yaml:"email"`
}

// SnapshotConfig selects the snapshot backend.
type SnapshotConfig struct {
	// Backend is "file" or "blob".
	Backend string `json:"backend" yaml:"backend"`

	// Path is the snapshot file path for the file backend.
	Path string `json:"path" yaml:"path"`

	// BucketURL is a gocloud blob URL (e.g. file:///var/lib/pos) for the
	// blob backend.
	BucketURL string `json:"bucketUrl" yaml:"bucketUrl"`

	// Key is the object key within the bucket.
	Key string `json:"key" yaml:"key"`
}

// AccountingConfig selects the ERP publisher backend.
type AccountingConfig struct {
	// Provider is "noop", "http" or "google".
	Provider string `json:"provider" yaml:"provider"`

	// Endpoint receives transaction batches for the http provider.
	Endpoint string `json:"endpoint" yaml:"endpoint"`

	// ProjectID and TopicID address Google Pub/Sub for the google provider.
	ProjectID string `json:"projectId" yaml:"projectId"`
	TopicID   string `json:"topicId" yaml:"topicId"`
}

// SyncConfig tunes the connectivity watcher.
type SyncConfig struct {
	ProbeInterval time.Duration `json:"probeInterval" yaml:"probeInterval"`
	ProbeTimeout  time.Duration `json:"probeTimeout" yaml:"probeTimeout"`
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
			// Example: SHIPPING_COSTWEIGHT -> shipping.costWeight (not shipping.costweight)
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

	applyDefaults(cfg)

	return cfg, nil
}

// applyDefaults fills the scorer and sync tunables left unset in the YAML.
func applyDefaults(cfg *Config) {
	if cfg.Shipping == nil {
		cfg.Shipping = &ShippingConfig{}
	}
	if cfg.Shipping.PerItemWeight == 0 {
		cfg.Shipping.PerItemWeight = 0.5
	}
	if cfg.Shipping.WeightSurcharge == 0 {
		cfg.Shipping.WeightSurcharge = 200
	}
	if cfg.Shipping.CostNormalization == 0 {
		cfg.Shipping.CostNormalization = 10000
	}
	if cfg.Shipping.CostWeight == 0 && cfg.Shipping.SpeedWeight == 0 {
		cfg.Shipping.CostWeight = 0.6
		cfg.Shipping.SpeedWeight = 0.4
	}

	if cfg.Sync == nil {
		cfg.Sync = &SyncConfig{}
	}
	if cfg.Sync.ProbeInterval == 0 {
		cfg.Sync.ProbeInterval = 15 * time.Second
	}
	if cfg.Sync.ProbeTimeout == 0 {
		cfg.Sync.ProbeTimeout = 3 * time.Second
	}

	if cfg.Payment == nil {
		cfg.Payment = &PaymentConfig{}
	}
	if cfg.Payment.Timeout == 0 {
		cfg.Payment.Timeout = 30 * time.Second
	}

	if cfg.Snapshot == nil {
		cfg.Snapshot = &SnapshotConfig{Backend: "file", Path: "pos-snapshot.json"}
	}
	if cfg.Snapshot.Key == "" {
		cfg.Snapshot.Key = "pos-snapshot.json"
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
