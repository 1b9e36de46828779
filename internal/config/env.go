package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// envReader overlays environment values and collects parse failures so a
// single bad variable does not hide the others.
type envReader struct {
	get  func(string) string
	errs []error
}

func (e *envReader) str(key string, dst *string) {
	if v := e.get(key); v != "" {
		*dst = v
	}
}

func (e *envReader) float(key string, dst *float64) {
	v := e.get(key)
	if v == "" {
		return
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %w", key, err))
		return
	}
	*dst = f
}

func (e *envReader) int(key string, dst *int) {
	v := e.get(key)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %w", key, err))
		return
	}
	*dst = n
}

func (e *envReader) bool(key string, dst *bool) {
	v := e.get(key)
	if v == "" {
		return
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %w", key, err))
		return
	}
	*dst = b
}

func (c *Config) applyEnv(get func(string) string) error {
	e := &envReader{get: get}

	e.str("ADDR", &c.Addr)
	e.str("WEB_DIR", &c.WebDir)
	e.str("TZ", &c.Timezone)
	e.str("LOG_LEVEL", &c.Log.Level)
	e.str("LOG_FORMAT", &c.Log.Format)

	e.str("DATABASE_DRIVER", &c.Database.Driver)
	if dir := get("BIO_DATA_DIR"); dir != "" && c.Database.Driver == "sqlite" {
		c.Database.URL = DataPath(dir, "bio.db")
	}
	e.str("DATABASE_URL", &c.Database.URL)

	e.str("BIO_API_KEY", &c.Auth.APIKey)
	e.str("WATER_WATCH_TOKEN", &c.Auth.WatchToken)
	e.str("OIDC_ISSUER", &c.Auth.OIDC.Issuer)
	e.str("OIDC_CLIENT_ID", &c.Auth.OIDC.ClientID)
	e.str("OIDC_CLIENT_SECRET", &c.Auth.OIDC.ClientSecret)
	e.str("OIDC_REDIRECT_URL", &c.Auth.OIDC.RedirectURL)

	e.float("USER_WEIGHT_KG", &c.User.WeightKg)
	e.float("USER_HEIGHT_CM", &c.User.HeightCm)
	e.int("USER_AGE", &c.User.Age)
	e.bool("USER_IS_FASTING", &c.User.IsFasting)

	s := &c.Substances
	e.float("ELVANSE_DEFAULT_DOSE_MG", &s.Elvanse.DefaultDoseMg)
	e.float("ELVANSE_KA_ABS", &s.Elvanse.KAbs)
	e.float("ELVANSE_KA", &s.Elvanse.KHyd)
	e.float("ELVANSE_KE", &s.Elvanse.KE)
	e.float("MEDIKINET_DEFAULT_DOSE_MG", &s.Medikinet.DefaultDoseMg)
	e.float("MEDIKINET_IR_KA", &s.Medikinet.Ka)
	e.float("MEDIKINET_IR_KE", &s.Medikinet.Ke)
	e.float("MEDIKINET_RETARD_DEFAULT_DOSE_MG", &s.MedikinetRetard.DefaultDoseMg)
	e.float("MEDIKINET_RETARD_KA", &s.MedikinetRetard.Ka)
	e.float("MEDIKINET_RETARD_KE", &s.MedikinetRetard.Ke)
	e.float("MATE_CAFFEINE_MG", &s.Mate.DefaultDoseMg)
	e.float("CAFFEINE_KA", &s.Mate.Ka)
	e.float("CAFFEINE_KE", &s.Mate.Ke)
	e.float("CO_DAFALGAN_DEFAULT_DOSE_MG", &s.CoDafalgan.DefaultDoseMg)
	e.float("CO_DAFALGAN_CODEIN_KA", &s.CoDafalgan.Codeine.Ka)
	e.float("CO_DAFALGAN_CODEIN_KE", &s.CoDafalgan.Codeine.Ke)
	e.float("CO_DAFALGAN_PARACETAMOL_KA", &s.CoDafalgan.Paracetamol.Ka)
	e.float("CO_DAFALGAN_PARACETAMOL_KE", &s.CoDafalgan.Paracetamol.Ke)

	h := &c.Hydration
	e.float("WATER_BASE_ML_PER_KG", &h.BaseMlPerKg)
	e.int("WATER_DRUG_MODIFIER_ML", &h.DrugModifierMl)
	e.int("WATER_FASTING_MODIFIER_ML", &h.FastingModifierMl)
	e.float("WATER_ACTIVITY_ML_PER_1K_STEPS", &h.ActivityMlPer1kSteps)
	e.int("WATER_ACTIVITY_BASELINE_STEPS", &h.ActivityBaselineSteps)
	e.int("WATER_MAX_HOURLY_ML", &h.MaxHourlyMl)
	e.float("WATER_WAKE_HOUR", &h.WakeHour)
	e.float("WATER_SLEEP_HOUR", &h.SleepHour)
	e.float("DEHYDRATION_HR_DRIFT_BPM", &h.HRDriftBpm)
	e.float("DEHYDRATION_HRV_DROP_PCT", &h.HRVDropPct)

	e.float("PARACETAMOL_MAX_DAILY_FASTING_MG", &c.DDI.ParacetamolMaxFastingMg)

	return errors.Join(e.errs...)
}
