package cmd

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/hh-matcher/internal/headhunter"
	"github.com/spigell/hh-matcher/internal/logger"
	"github.com/spigell/hh-matcher/internal/matching"
	"github.com/spigell/hh-matcher/internal/records"
	"github.com/spigell/hh-matcher/internal/secrets"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Index vacancies and own resumes from hh.ru",
	RunE: func(cmd *cobra.Command, _ []string) error {
		withVacancies, _ := cmd.Flags().GetBool("vacancies")
		withResumes, _ := cmd.Flags().GetBool("resumes")
		return runSync(cmd.Context(), withVacancies, withResumes)
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().Bool("vacancies", true, "index vacancies found with headhunter.search")
	syncCmd.Flags().Bool("resumes", true, "index resumes of the account")
}

func runSync(ctx context.Context, withVacancies, withResumes bool) error {
	config, c, err := setup(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	token, err := resolveToken(config)
	if err != nil {
		c.logger.Error(
			"loading headhunter token",
			zap.Error(err),
			zap.String("hint", "set HH_TOKEN_FILE environment variable or the 'headhunter.token-file' key in the configuration file"),
		)
		return err
	}

	hh := headhunter.New(c.logger, token, config.Headhunter.UserAgent)
	s := &syncer{hh: hh, indexer: c.indexer, logger: c.logger}

	var errs []error
	if withResumes {
		errs = append(errs, s.resumes(ctx))
	}
	if withVacancies {
		errs = append(errs, s.vacancies(ctx, config.Headhunter.Search))
	}
	return errors.Join(errs...)
}

type syncer struct {
	hh      *headhunter.Client
	indexer *matching.Indexer
	logger  *zap.Logger
}

func (s *syncer) resumes(ctx context.Context) error {
	resumes, err := s.hh.GetMineResumes(ctx)
	if err != nil {
		return err
	}
	s.logger.Info("getting mine resumes", zap.Int("count", resumes.Len()))

	var recs []records.Record
	for _, r := range resumes.Items {
		details, err := s.hh.GetResumeDetails(ctx, r.ID)
		if err != nil {
			s.logger.Warn("getting resume details", zap.String("resume_id", r.ID), zap.Error(err))
			continue
		}
		recs = append(recs, headhunter.ResumeRecord(details))
	}

	return s.upsert(ctx, recs)
}

func (s *syncer) vacancies(ctx context.Context, params *headhunter.SearchParams) error {
	if params == nil {
		params = &headhunter.SearchParams{}
	}
	s.logger.Info("starting the search", zap.String("search", params.Text))

	vacancies, err := s.hh.Search(ctx, params)
	if err != nil {
		return err
	}

	recs := make([]records.Record, 0, vacancies.Len())
	for _, v := range vacancies.Items {
		recs = append(recs, headhunter.VacancyRecord(v))
	}

	return s.upsert(ctx, recs)
}

// upsert indexes recs one by one and stops at the first configuration error.
func (s *syncer) upsert(ctx context.Context, recs []records.Record) error {
	var failed int
	for _, rec := range recs {
		err := s.indexer.Upsert(ctx, rec)
		if err == nil {
			continue
		}

		var config *matching.ConfigurationError
		if errors.As(err, &config) {
			return err
		}
		failed++
		s.logger.Warn("indexing record", zap.String(logger.FieldRecordID, rec.ID), zap.Error(err))
	}

	s.logger.Info("sync finished", zap.Int("records", len(recs)), zap.Int("failed", failed))
	if failed > 0 {
		return errors.New("some records were not indexed")
	}
	return nil
}

func resolveToken(config *Config) (string, error) {
	if config == nil {
		return "", errors.New("config is required")
	}

	tokenFile := strings.TrimSpace(config.Headhunter.TokenFile)
	if tokenFile == "" {
		tokenFile = strings.TrimSpace(viper.GetString("headhunter.token-file"))
	}

	if tokenFile == "" {
		return "", errors.New("headhunter token file is not configured")
	}

	return secrets.Load(secrets.Source{
		Name: "headhunter token",
		File: tokenFile,
	})
}
