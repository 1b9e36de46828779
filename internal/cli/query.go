package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"biodash/internal/app"
	"biodash/internal/bioscore"
	"biodash/internal/domain"
)

func init() {
	score := &cobra.Command{
		Use:   "score",
		Short: "Print the bio-score at an instant",
		RunE:  runScore,
	}
	score.Flags().String("at", "", "ISO-8601 instant (default: now)")

	curve := &cobra.Command{
		Use:   "curve",
		Short: "Print the bio-score curve of a local day",
		RunE:  runCurve,
	}
	curve.Flags().String("date", "", "Local day YYYY-MM-DD (default: today)")
	curve.Flags().Int("interval", bioscore.DefaultInterval, "Sampling interval in minutes (5-60)")

	ddiCmd := &cobra.Command{
		Use:   "ddi",
		Short: "Print the interaction warnings in effect at an instant",
		RunE:  runDDI,
	}
	ddiCmd.Flags().String("at", "", "ISO-8601 instant (default: now)")

	hydrationCmd := &cobra.Command{
		Use:   "hydration",
		Short: "Print today's hydration status and coaching advice",
		RunE:  runHydration,
	}

	fitCmd := &cobra.Command{
		Use:   "fit",
		Short: "Correlate logged focus with the modeled d-amphetamine level",
		RunE:  runFit,
	}

	RootCmd.AddCommand(score, curve, ddiCmd, hydrationCmd, fitCmd)
}

func instantFlag(cmd *cobra.Command, loc *time.Location) (time.Time, error) {
	v, _ := cmd.Flags().GetString("at")
	if v == "" {
		return time.Now().In(loc), nil
	}
	t, err := domain.ParseTimestamp(v, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("--at: %w", err)
	}
	return t, nil
}

func runScore(cmd *cobra.Command, args []string) error {
	st, err := openStack()
	if err != nil {
		return err
	}
	defer func() { _ = st.close() }()

	at, err := instantFlag(cmd, st.loc)
	if err != nil {
		return err
	}
	r, err := st.svc.Bio.Score(cmd.Context(), at)
	if err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), r, func(w io.Writer) { writeScore(w, r) })
}

func writeScore(w io.Writer, r bioscore.Result) {
	fmt.Fprintf(w, "%s  score %.1f  phase %s\n", r.Timestamp.Format("2006-01-02 15:04"), r.Score, r.Phase)
	fmt.Fprintf(w, "  circadian %.1f  elvanse %+.1f  medikinet %+.1f  caffeine %+.1f  sleep %+.1f  hrv %+.1f\n",
		r.Circadian, r.ElvanseBoost, r.MedikinetBoost, r.CaffeineBoost, r.SleepModifier, r.HRVPenalty)
	fmt.Fprintf(w, "  ng/ml: d-amph %.1f  mph %.1f  caffeine %.0f  codeine %.1f\n",
		r.ElvanseNgMl, r.MedikinetNgMl, r.CaffeineNgMl, r.CodeinNgMl)
	for _, warn := range r.Warnings {
		fmt.Fprintf(w, "  [%s] %s\n", warn.Severity, warn.Title)
	}
}

func runCurve(cmd *cobra.Command, args []string) error {
	st, err := openStack()
	if err != nil {
		return err
	}
	defer func() { _ = st.close() }()

	day := time.Now().In(st.loc)
	if v, _ := cmd.Flags().GetString("date"); v != "" {
		if day, err = time.ParseInLocation("2006-01-02", v, st.loc); err != nil {
			return fmt.Errorf("--date: want YYYY-MM-DD")
		}
	}
	interval, _ := cmd.Flags().GetInt("interval")
	points, err := st.svc.Bio.DayCurve(cmd.Context(), day, interval)
	if err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), points, func(w io.Writer) {
		for _, p := range points {
			fmt.Fprintf(w, "%s  %5.1f  %s\n", p.Timestamp.Format("15:04"), p.Score, p.Phase)
		}
	})
}

func runDDI(cmd *cobra.Command, args []string) error {
	st, err := openStack()
	if err != nil {
		return err
	}
	defer func() { _ = st.close() }()

	at, err := instantFlag(cmd, st.loc)
	if err != nil {
		return err
	}
	warnings, err := st.svc.Bio.DDI(cmd.Context(), at)
	if err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), warnings, func(w io.Writer) {
		if len(warnings) == 0 {
			fmt.Fprintln(w, "no interactions")
			return
		}
		for _, warn := range warnings {
			fmt.Fprintf(w, "[%s] %s\n  %s\n", warn.Severity, warn.Title, warn.Message)
		}
	})
}

func runHydration(cmd *cobra.Command, args []string) error {
	st, err := openStack()
	if err != nil {
		return err
	}
	defer func() { _ = st.close() }()

	status, err := st.svc.Hydration.Status(cmd.Context(), time.Now())
	if err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), status, func(w io.Writer) { writeHydration(w, status) })
}

func writeHydration(w io.Writer, s app.Status) {
	fmt.Fprintf(w, "%s  %d / %d ml (expected %d ml)  %s\n",
		s.Date, s.IntakeMl, s.Goal.GoalMl, s.ExpectedMl, s.Assessment.Status)
	if s.Assessment.Message != "" {
		fmt.Fprintf(w, "  [%s] %s\n", s.Assessment.Priority, s.Assessment.Message)
	}
	if s.Velocity.Alert {
		fmt.Fprintf(w, "  %s\n", s.Velocity.Message)
	}
	if s.Dehydration.Alert {
		fmt.Fprintf(w, "  %s\n", s.Dehydration.Message)
	}
}

func runFit(cmd *cobra.Command, args []string) error {
	st, err := openStack()
	if err != nil {
		return err
	}
	defer func() { _ = st.close() }()

	res, err := st.svc.Fit.Fit(cmd.Context(), time.Now())
	if err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), res, func(w io.Writer) {
		if res.Status == app.FitInsufficient {
			fmt.Fprintf(w, "%s (%d/%d pairs)\n", res.Message, res.Pairs, res.Required)
			return
		}
		fmt.Fprintf(w, "r=%.3f over %d pairs  mean focus %.2f  mean level %.3f\n",
			*res.Correlation, res.Pairs, *res.MeanFocus, *res.MeanLevel)
		fmt.Fprintln(w, res.Recommendation)
	})
}
