// Package demo embeds a small fixture cohort and drives the full
// pipeline against it without any network access. Used by the run
// command and by end-to-end tests.
package demo

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"cadence/adapters/store"
	"cadence/internal/artifact"
	"cadence/internal/pipeline"
)

//go:embed fixtures.yaml
var fixturesYAML []byte

type fixtureContact struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	Title     string `yaml:"title"`
	AccountID string `yaml:"account_id"`
}

type fixtureAccount struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	Domain    string `yaml:"domain"`
	Industry  string `yaml:"industry"`
	Employees int    `yaml:"employees"`
}

type fixtureCompanyResearch struct {
	Description    string   `yaml:"description"`
	HiringSignals  string   `yaml:"hiring_signals"`
	FundingInfo    string   `yaml:"funding_info"`
	RecentNews     string   `yaml:"recent_news"`
	KnownTools     []string `yaml:"known_tools"`
	FetchedDaysAgo int      `yaml:"fetched_days_ago"`
}

type fixturePersonResearch struct {
	Headline       string `yaml:"headline"`
	About          string `yaml:"about"`
	RecentlyHired  bool   `yaml:"recently_hired"`
	FetchedDaysAgo int    `yaml:"fetched_days_ago"`
}

type fixtureProspect struct {
	Email   string                  `yaml:"email"`
	Contact fixtureContact          `yaml:"contact"`
	Account fixtureAccount          `yaml:"account"`
	Company *fixtureCompanyResearch `yaml:"company_research"`
	Person  *fixturePersonResearch  `yaml:"person_research"`
}

type fixtureFile struct {
	Prospects []fixtureProspect `yaml:"prospects"`
}

// Cache is the fixture-backed research cache.
type Cache struct {
	company map[string]*artifact.CompanyResearch
	person  map[string]*artifact.PersonResearch
}

func (c *Cache) CompanyResearch(accountID string) (*artifact.CompanyResearch, bool, error) {
	r, ok := c.company[accountID]
	return r, ok, nil
}

func (c *Cache) PersonResearch(contactID string) (*artifact.PersonResearch, bool, error) {
	r, ok := c.person[contactID]
	return r, ok, nil
}

// Cohort materializes the embedded fixtures. Fetch timestamps are
// expressed as days-ago in the YAML and anchored to now here, so the
// cohort's signal decay behaves the same on any run date.
func Cohort(now time.Time) ([]pipeline.Prospect, *Cache, error) {
	var f fixtureFile
	if err := yaml.Unmarshal(fixturesYAML, &f); err != nil {
		return nil, nil, fmt.Errorf("parse fixtures: %w", err)
	}
	if len(f.Prospects) == 0 {
		return nil, nil, fmt.Errorf("fixture cohort is empty")
	}

	cache := &Cache{
		company: make(map[string]*artifact.CompanyResearch),
		person:  make(map[string]*artifact.PersonResearch),
	}
	var prospects []pipeline.Prospect
	for _, fp := range f.Prospects {
		prospects = append(prospects, pipeline.Prospect{
			Contact: artifact.Contact{
				ID:        fp.Contact.ID,
				Name:      fp.Contact.Name,
				Title:     fp.Contact.Title,
				AccountID: fp.Contact.AccountID,
			},
			Account: artifact.Account{
				ID:        fp.Account.ID,
				Name:      fp.Account.Name,
				Domain:    fp.Account.Domain,
				Industry:  fp.Account.Industry,
				Employees: fp.Account.Employees,
			},
			Email: fp.Email,
		})
		if fp.Company != nil {
			cache.company[fp.Account.ID] = &artifact.CompanyResearch{
				Description:   fp.Company.Description,
				HiringSignals: fp.Company.HiringSignals,
				FundingInfo:   fp.Company.FundingInfo,
				RecentNews:    fp.Company.RecentNews,
				KnownTools:    fp.Company.KnownTools,
				FetchedAt:     now.AddDate(0, 0, -fp.Company.FetchedDaysAgo),
			}
		}
		if fp.Person != nil {
			cache.person[fp.Contact.ID] = &artifact.PersonResearch{
				Headline:      fp.Person.Headline,
				About:         fp.Person.About,
				RecentlyHired: fp.Person.RecentlyHired,
				FetchedAt:     now.AddDate(0, 0, -fp.Person.FetchedDaysAgo),
			}
		}
	}
	return prospects, cache, nil
}

// Run executes the full pipeline over the fixture cohort.
func Run(ctx context.Context, st store.Store, workers int, now time.Time) (*pipeline.Batch, error) {
	prospects, cache, err := Cohort(now)
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(pipeline.Config{
		Store:   st,
		Cache:   cache,
		Workers: workers,
	})
	return runner.Run(ctx, prospects, now)
}
