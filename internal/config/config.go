// Package config loads runtime configuration from code defaults, an
// optional YAML file and environment variables, in that order.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"biodash/internal/ddi"
	"biodash/internal/domain"
	"biodash/internal/hydration"
	"biodash/internal/pk"
)

// Config is the complete runtime configuration.
type Config struct {
	Addr       string           `yaml:"addr" validate:"required"`
	WebDir     string           `yaml:"web_dir"`
	Timezone   string           `yaml:"timezone" validate:"required"`
	Log        Log              `yaml:"log"`
	Database   Database         `yaml:"database"`
	Auth       Auth             `yaml:"auth"`
	User       User             `yaml:"user"`
	Substances Substances       `yaml:"substances"`
	Hydration  hydration.Params `yaml:"hydration"`
	DDI        ddi.Rules        `yaml:"ddi"`
}

type Log struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=json console"`
}

type Database struct {
	Driver string `yaml:"driver" validate:"oneof=sqlite postgres"`
	URL    string `yaml:"url" validate:"required"`
}

type Auth struct {
	// APIKey guards the JSON API. Empty disables the check.
	APIKey string `yaml:"api_key"`
	// WatchToken guards the watch endpoints. Empty falls back to APIKey.
	WatchToken string        `yaml:"watch_token"`
	SessionTTL time.Duration `yaml:"session_ttl" validate:"gt=0"`
	OIDC       OIDC          `yaml:"oidc"`
}

type OIDC struct {
	Issuer       string `yaml:"issuer" validate:"omitempty,url"`
	ClientID     string `yaml:"client_id" validate:"required_with=Issuer"`
	ClientSecret string `yaml:"client_secret"`
	RedirectURL  string `yaml:"redirect_url" validate:"required_with=Issuer"`
}

// Enabled reports whether SSO is configured.
func (o OIDC) Enabled() bool { return o.Issuer != "" }

type User struct {
	WeightKg  float64 `yaml:"weight_kg" validate:"gt=0"`
	HeightCm  float64 `yaml:"height_cm" validate:"gte=0"`
	Age       int     `yaml:"age" validate:"gte=0"`
	IsFasting bool    `yaml:"is_fasting"`
}

// Rates are first-order Bateman rate constants with a reference Cmax.
type Rates struct {
	Ka       float64 `yaml:"ka" validate:"gt=0"`
	Ke       float64 `yaml:"ke" validate:"gt=0"`
	CmaxNgMl float64 `yaml:"cmax_ng_ml" validate:"gt=0"`
}

type BatemanSubstance struct {
	DefaultDoseMg float64 `yaml:"default_dose_mg" validate:"gt=0"`
	Rates         `yaml:",inline"`
}

type CascadeSubstance struct {
	DefaultDoseMg float64 `yaml:"default_dose_mg" validate:"gt=0"`
	KAbs          float64 `yaml:"k_abs" validate:"gt=0"`
	KHyd          float64 `yaml:"k_hyd" validate:"gt=0"`
	KE            float64 `yaml:"k_e" validate:"gt=0"`
	CmaxNgMl      float64 `yaml:"cmax_ng_ml" validate:"gt=0"`
}

// CoDafalgan doses are logged as mg paracetamol.
type CoDafalgan struct {
	DefaultDoseMg float64 `yaml:"default_dose_mg" validate:"gt=0"`
	Codeine       Rates   `yaml:"codeine"`
	Paracetamol   Rates   `yaml:"paracetamol"`
}

type Substances struct {
	Elvanse         CascadeSubstance `yaml:"elvanse"`
	Medikinet       BatemanSubstance `yaml:"medikinet"`
	MedikinetRetard BatemanSubstance `yaml:"medikinet_retard"`
	Mate            BatemanSubstance `yaml:"mate"`
	CoDafalgan      CoDafalgan       `yaml:"co_dafalgan"`
}

// Default returns the built-in configuration.
func Default() *Config {
	profiles := map[pk.Agent]pk.Profile{}
	for _, p := range pk.DefaultProfiles() {
		profiles[p.Agent] = p
	}
	bateman := func(a pk.Agent) BatemanSubstance {
		p := profiles[a]
		b := p.Curve.(pk.Bateman)
		return BatemanSubstance{DefaultDoseMg: p.DefaultDoseMg, Rates: Rates{Ka: b.Ka, Ke: b.Ke, CmaxNgMl: p.CmaxRefNgMl}}
	}
	elv := profiles[pk.DAmphetamine]
	cascade := elv.Curve.(pk.Cascade)

	return &Config{
		Addr:     ":8080",
		WebDir:   "web",
		Timezone: "Europe/Zurich",
		Log:      Log{Level: "info", Format: "json"},
		Database: Database{Driver: "sqlite", URL: "bio.db"},
		Auth:     Auth{SessionTTL: 24 * time.Hour},
		User:     User{WeightKg: 96, HeightCm: 192, Age: 19, IsFasting: true},
		Substances: Substances{
			Elvanse: CascadeSubstance{
				DefaultDoseMg: elv.DefaultDoseMg,
				KAbs:          cascade.KAbs,
				KHyd:          cascade.KHyd,
				KE:            cascade.KE,
				CmaxNgMl:      elv.CmaxRefNgMl,
			},
			Medikinet:       bateman(pk.MethylphenidateIR),
			MedikinetRetard: bateman(pk.MethylphenidateMR),
			Mate:            bateman(pk.Caffeine),
			CoDafalgan: CoDafalgan{
				DefaultDoseMg: profiles[pk.Paracetamol].DefaultDoseMg,
				Codeine:       bateman(pk.Codeine).Rates,
				Paracetamol:   bateman(pk.Paracetamol).Rates,
			},
		},
		Hydration: hydration.DefaultParams(),
		DDI:       ddi.DefaultRules(),
	}
}

// Load builds the configuration. path may be empty; a missing file at a
// non-empty path is an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := cfg.decodeYAML(bytes.NewReader(b)); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, fmt.Errorf("config: env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decodeYAML(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks struct constraints and the timezone.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: invalid: %w", err)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("config: timezone %q: %w", c.Timezone, err)
	}
	return nil
}

// Location returns the configured timezone, or UTC if it cannot be loaded.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// WatchToken returns the token the watch must present, if any.
func (c *Config) WatchToken() string {
	if c.Auth.WatchToken != "" {
		return c.Auth.WatchToken
	}
	return c.Auth.APIKey
}

// Profile resolves the configured user profile.
func (c *Config) Profile() domain.UserProfile {
	return domain.UserProfile{
		WeightKg:  c.User.WeightKg,
		HeightCm:  c.User.HeightCm,
		Age:       c.User.Age,
		IsFasting: c.User.IsFasting,
	}
}

// HydrationParams resolves the hydration constants.
func (c *Config) HydrationParams() hydration.Params { return c.Hydration }

// DDIRules resolves the interaction thresholds.
func (c *Config) DDIRules() ddi.Rules { return c.DDI }

// Profiles resolves the PK profiles.
func (c *Config) Profiles() []pk.Profile {
	s := c.Substances
	bateman := func(a pk.Agent, sub domain.Substance, dose, ref float64, r Rates) pk.Profile {
		return pk.Profile{
			Agent:           a,
			Substance:       sub,
			Curve:           pk.Bateman{Ka: r.Ka, Ke: r.Ke},
			DefaultDoseMg:   dose,
			ReferenceDoseMg: ref,
			CmaxRefNgMl:     r.CmaxNgMl,
		}
	}
	return []pk.Profile{
		{
			Agent:           pk.DAmphetamine,
			Substance:       domain.Elvanse,
			Curve:           pk.Cascade{KAbs: s.Elvanse.KAbs, KHyd: s.Elvanse.KHyd, KE: s.Elvanse.KE},
			DefaultDoseMg:   s.Elvanse.DefaultDoseMg,
			ReferenceDoseMg: s.Elvanse.DefaultDoseMg,
			CmaxRefNgMl:     s.Elvanse.CmaxNgMl,
		},
		bateman(pk.MethylphenidateIR, domain.Medikinet, s.Medikinet.DefaultDoseMg, s.Medikinet.DefaultDoseMg, s.Medikinet.Rates),
		bateman(pk.MethylphenidateMR, domain.MedikinetRetard, s.MedikinetRetard.DefaultDoseMg, s.MedikinetRetard.DefaultDoseMg, s.MedikinetRetard.Rates),
		bateman(pk.Caffeine, domain.Mate, s.Mate.DefaultDoseMg, s.Mate.DefaultDoseMg, s.Mate.Rates),
		// Codeine Cmax refers to one 500 mg tablet whatever the default dose.
		bateman(pk.Codeine, domain.CoDafalgan, s.CoDafalgan.DefaultDoseMg, pk.CoDafalganDefaultDoseMg, s.CoDafalgan.Codeine),
		bateman(pk.Paracetamol, domain.CoDafalgan, s.CoDafalgan.DefaultDoseMg, s.CoDafalgan.DefaultDoseMg, s.CoDafalgan.Paracetamol),
	}
}

// DataPath joins BIO_DATA_DIR-style directories with a default file name.
func DataPath(dir, name string) string {
	if dir == "" {
		return name
	}
	return filepath.Join(dir, name)
}
