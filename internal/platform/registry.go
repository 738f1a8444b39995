package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v2"
)

// Currency is a provisioned crypto currency.
type Currency struct {
	Symbol string `yaml:"symbol"`
	Name   string `yaml:"name"`
}

// Policy describes one platform's provisioning and gating rules.
type Policy struct {
	Name                 string
	FixedId              int64 // 0 = name-based lookup
	StartingBalance      decimal.Decimal
	AdminStartingBalance decimal.Decimal
	Currencies           []Currency
	AdminWalletSeeds     map[string]decimal.Decimal
	MobileIdentity       bool
	StrictChatGate       bool
	OperatorEmail        string
}

// Registry resolves platform names to their provisioning policies.
type Registry struct {
	policies map[string]Policy
}

var (
	btcEth = []Currency{
		{Symbol: "BTC", Name: "Bitcoin"},
		{Symbol: "ETH", Name: "Ethereum"},
	}

	fullSet = []Currency{
		{Symbol: "BTC", Name: "Bitcoin"},
		{Symbol: "ETH", Name: "Ethereum"},
		{Symbol: "BNB", Name: "Binance Coin"},
		{Symbol: "SOL", Name: "Solana"},
		{Symbol: "ADA", Name: "Cardano"},
		{Symbol: "DOT", Name: "Polkadot"},
		{Symbol: "LINK", Name: "Chainlink"},
		{Symbol: "UNI", Name: "Uniswap"},
	}

	// Admin registrations on wallet-provisioned platforms seed BTC and ETH.
	adminWalletSeeds = map[string]decimal.Decimal{
		"BTC": decimal.NewFromInt(10),
		"ETH": decimal.NewFromInt(100),
	}
)

// Default returns the built-in registry for the five simulated platforms.
func Default() *Registry {
	policies := []Policy{
		{
			Name:                 "PayPal",
			StartingBalance:      decimal.NewFromInt(500),
			AdminStartingBalance: decimal.NewFromInt(10000),
			Currencies:           btcEth,
			AdminWalletSeeds:     adminWalletSeeds,
			StrictChatGate:       true,
			OperatorEmail:        "admin@PayPal.com",
		},
		{
			Name:                 "CryptoPort",
			StartingBalance:      decimal.NewFromInt(1000),
			AdminStartingBalance: decimal.NewFromInt(10000),
			Currencies:           fullSet,
			AdminWalletSeeds:     adminWalletSeeds,
			OperatorEmail:        "admin@cryptoport.com",
		},
		{
			Name:                 "SendWave",
			StartingBalance:      decimal.NewFromInt(500),
			AdminStartingBalance: decimal.NewFromInt(10000),
			MobileIdentity:       true,
			OperatorEmail:        "admin@sendwave.com",
		},
		{
			Name:                 "PayFlow",
			StartingBalance:      decimal.NewFromInt(500),
			AdminStartingBalance: decimal.NewFromInt(10000),
			Currencies:           btcEth,
			AdminWalletSeeds:     adminWalletSeeds,
			OperatorEmail:        "admin@payflow.com",
		},
		{
			Name:                 "QuickCash",
			FixedId:              5,
			StartingBalance:      decimal.NewFromInt(100),
			AdminStartingBalance: decimal.NewFromInt(10000),
			Currencies:           btcEth,
			AdminWalletSeeds:     adminWalletSeeds,
			OperatorEmail:        "admin@quickcash.com",
		},
	}

	r := &Registry{policies: make(map[string]Policy, len(policies))}
	for _, p := range policies {
		r.policies[strings.ToLower(p.Name)] = p
	}
	return r
}

// Policy returns the policy for a platform name (case-insensitive).
func (r *Registry) Policy(name string) (Policy, bool) {
	p, ok := r.policies[strings.ToLower(name)]
	return p, ok
}

// Names returns all registered platform names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.policies))
	for _, p := range r.policies {
		names = append(names, p.Name)
	}
	return names
}

// IsOperator reports whether the email is the platform's operator identity.
func (r *Registry) IsOperator(platformName, email string) bool {
	p, ok := r.Policy(platformName)
	if !ok {
		return false
	}
	return strings.EqualFold(p.OperatorEmail, email)
}

type platformFileEntry struct {
	Name                 string     `yaml:"name"`
	FixedId              int64      `yaml:"fixed_id"`
	StartingBalance      string     `yaml:"starting_balance"`
	AdminStartingBalance string     `yaml:"admin_starting_balance"`
	Currencies           []Currency `yaml:"currencies"`
	AdminWalletSeeds     map[string]string `yaml:"admin_wallet_seeds"`
	MobileIdentity       bool       `yaml:"mobile_identity"`
	StrictChatGate       bool       `yaml:"strict_chat_gate"`
	OperatorEmail        string     `yaml:"operator_email"`
}

type platformsFile struct {
	Platforms []platformFileEntry `yaml:"platforms"`
}

// Load reads a platform registry from a YAML file.
func Load(file string) (*Registry, error) {
	path := file
	if !filepath.IsAbs(file) {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		path = filepath.Join(wd, file)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", file, err)
	}

	var parsed platformsFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", file, err)
	}
	if len(parsed.Platforms) == 0 {
		return nil, fmt.Errorf("%s defines no platforms", file)
	}

	r := &Registry{policies: make(map[string]Policy, len(parsed.Platforms))}
	for i, entry := range parsed.Platforms {
		if entry.Name == "" {
			return nil, fmt.Errorf("platform at index %d missing name", i)
		}
		if entry.OperatorEmail == "" {
			return nil, fmt.Errorf("platform %s missing operator_email", entry.Name)
		}

		starting, err := decimal.NewFromString(entry.StartingBalance)
		if err != nil {
			return nil, fmt.Errorf("platform %s: invalid starting_balance %q: %w", entry.Name, entry.StartingBalance, err)
		}
		adminStarting, err := decimal.NewFromString(entry.AdminStartingBalance)
		if err != nil {
			return nil, fmt.Errorf("platform %s: invalid admin_starting_balance %q: %w", entry.Name, entry.AdminStartingBalance, err)
		}

		seeds := make(map[string]decimal.Decimal, len(entry.AdminWalletSeeds))
		for symbol, raw := range entry.AdminWalletSeeds {
			seed, err := decimal.NewFromString(raw)
			if err != nil {
				return nil, fmt.Errorf("platform %s: invalid admin_wallet_seeds[%s] %q: %w", entry.Name, symbol, raw, err)
			}
			seeds[symbol] = seed
		}

		r.policies[strings.ToLower(entry.Name)] = Policy{
			Name:                 entry.Name,
			FixedId:              entry.FixedId,
			StartingBalance:      starting,
			AdminStartingBalance: adminStarting,
			Currencies:           entry.Currencies,
			AdminWalletSeeds:     seeds,
			MobileIdentity:       entry.MobileIdentity,
			StrictChatGate:       entry.StrictChatGate,
			OperatorEmail:        entry.OperatorEmail,
		}
	}

	return r, nil
}
