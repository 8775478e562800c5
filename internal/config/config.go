package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tanishq20011430/job-watchdog/internal/match"
	"github.com/tanishq20011430/job-watchdog/internal/source"
)

type Config struct {
	App struct {
		DataDir string `yaml:"data_dir"`
	} `yaml:"app"`

	Search struct {
		Keywords              []string `yaml:"keywords"`
		MaxAgeHours           float64  `yaml:"max_age_hours"`
		MaxConcurrentFetches  int      `yaml:"max_concurrent_fetches"`
		RequestTimeoutSeconds int      `yaml:"request_timeout_seconds"`
		TopMatches            int      `yaml:"top_matches"`
		// Schedule is a cron expression; empty means run once and exit.
		Schedule string `yaml:"schedule"`
	} `yaml:"search"`

	Matching struct {
		MinScore         float64               `yaml:"min_score"`
		EmbedModel       string                `yaml:"embed_model"`
		Profiles         []string              `yaml:"profiles"`
		RequiredKeywords []string              `yaml:"required_keywords"`
		ExcludeKeywords  []string              `yaml:"exclude_keywords"`
		KeywordWeights   []match.KeywordWeight `yaml:"keyword_weights"`
	} `yaml:"matching"`

	Locations struct {
		Target             []string          `yaml:"target"`
		Exclude            []string          `yaml:"exclude"`
		RestrictionPhrases []string          `yaml:"restriction_phrases"`
		RemoteTerms        []string          `yaml:"remote_terms"`
		Cities             []match.CityAlias `yaml:"cities"`
	} `yaml:"locations"`

	Experience struct {
		Enabled     bool   `yaml:"enabled"`
		Model       string `yaml:"model"`
		Concurrency int    `yaml:"concurrency"`
		CallDelayMS int    `yaml:"call_delay_ms"`
	} `yaml:"experience"`

	Sources struct {
		RemoteOK struct {
			Enabled bool `yaml:"enabled"`
		} `yaml:"remoteok"`
		Arbeitnow struct {
			Enabled bool `yaml:"enabled"`
		} `yaml:"arbeitnow"`
		Jobicy struct {
			Enabled bool   `yaml:"enabled"`
			Tag     string `yaml:"tag"`
		} `yaml:"jobicy"`
		Himalayas struct {
			Enabled bool `yaml:"enabled"`
		} `yaml:"himalayas"`
		WeWorkRemotely struct {
			Enabled bool   `yaml:"enabled"`
			FeedURL string `yaml:"feed_url"`
		} `yaml:"weworkremotely"`
		Greenhouse struct {
			Enabled bool                     `yaml:"enabled"`
			Boards  []source.GreenhouseBoard `yaml:"boards"`
		} `yaml:"greenhouse"`
		SerpAPI struct {
			Enabled      bool   `yaml:"enabled"`
			Location     string `yaml:"location"`
			MonthlyLimit int    `yaml:"monthly_limit"`
		} `yaml:"serpapi"`
	} `yaml:"sources"`

	Notify struct {
		Telegram struct {
			Enabled bool  `yaml:"enabled"`
			ChatID  int64 `yaml:"chat_id"`
		} `yaml:"telegram"`
		Email struct {
			Enabled    bool   `yaml:"enabled"`
			SMTPServer string `yaml:"smtp_server"`
			SMTPPort   int    `yaml:"smtp_port"`
			FromEmail  string `yaml:"from_email"`
			ToEmail    string `yaml:"to_email"`
		} `yaml:"email"`
		Console bool `yaml:"console"`
	} `yaml:"notify"`

	Retention struct {
		Days int `yaml:"days"`
	} `yaml:"retention"`
}

// Default returns the built-in configuration tuned for an early-career
// data candidate searching the German and EU remote market.
func Default() Config {
	var cfg Config
	cfg.App.DataDir = "data"

	cfg.Search.Keywords = []string{"data analyst", "data engineer", "data scientist", "machine learning", "business intelligence", "analytics"}
	cfg.Search.MaxAgeHours = 72
	cfg.Search.MaxConcurrentFetches = 5
	cfg.Search.RequestTimeoutSeconds = 60
	cfg.Search.TopMatches = 10

	cfg.Matching.MinScore = 0.35
	cfg.Matching.EmbedModel = "gemini-embedding-001"
	cfg.Matching.Profiles = []string{
		"Early career data analyst skilled in SQL, Python, dashboards and statistics, looking for data analytics roles in Germany or remote in the EU.",
		"Junior data engineer experienced with Python, SQL, Airflow, dbt and cloud data warehouses, building ETL pipelines.",
		"Aspiring machine learning engineer with Python, scikit-learn and model deployment experience.",
	}
	cfg.Matching.RequiredKeywords = []string{"data", "analytics", "analyst", "machine learning", "engineer", "scientist", "intelligence"}
	cfg.Matching.ExcludeKeywords = []string{
		"director", "vp", "vice president", "chief", "head of", "principal architect",
		"sales", "recruiter", "account executive", "marketing manager", "customer success",
	}
	cfg.Matching.KeywordWeights = []match.KeywordWeight{
		{Term: "python", Weight: 0.25},
		{Term: "sql", Weight: 0.25},
		{Term: "airflow", Weight: 0.15},
		{Term: "dbt", Weight: 0.15},
		{Term: "spark", Weight: 0.15},
		{Term: "tableau", Weight: 0.1},
		{Term: "power bi", Weight: 0.1},
		{Term: "etl", Weight: 0.15},
		{Term: "machine learning", Weight: 0.2},
		{Term: "data warehouse", Weight: 0.15},
		{Term: "pandas", Weight: 0.1},
		{Term: "statistics", Weight: 0.1},
	}

	cfg.Locations.Target = []string{"germany", "deutschland", "berlin", "munich", "münchen", "hamburg", "frankfurt", "cologne", "köln", "stuttgart", "european union", "emea", "europe", "eu"}
	cfg.Locations.Exclude = []string{"usa", "united states", "us only", "canada", "india", "latam", "apac"}
	cfg.Locations.RestrictionPhrases = []string{"us citizens only", "must be located in the us", "authorized to work in the united states", "us-based only", "within the united states"}
	cfg.Locations.RemoteTerms = []string{"remote", "work from home", "anywhere", "fully remote", "home office"}
	cfg.Locations.Cities = []match.CityAlias{
		{Match: "berlin", Name: "Berlin"},
		{Match: "münchen", Name: "Munich"},
		{Match: "munich", Name: "Munich"},
		{Match: "hamburg", Name: "Hamburg"},
		{Match: "frankfurt", Name: "Frankfurt"},
		{Match: "köln", Name: "Cologne"},
		{Match: "cologne", Name: "Cologne"},
		{Match: "stuttgart", Name: "Stuttgart"},
	}

	cfg.Experience.Enabled = true
	cfg.Experience.Model = "gemini-2.0-flash"
	cfg.Experience.Concurrency = 3
	cfg.Experience.CallDelayMS = 500

	cfg.Sources.RemoteOK.Enabled = true
	cfg.Sources.Arbeitnow.Enabled = true
	cfg.Sources.Jobicy.Enabled = true
	cfg.Sources.Jobicy.Tag = "data"
	cfg.Sources.Himalayas.Enabled = true
	cfg.Sources.WeWorkRemotely.Enabled = true
	cfg.Sources.SerpAPI.Location = "Germany"
	cfg.Sources.SerpAPI.MonthlyLimit = 100

	cfg.Notify.Console = true
	cfg.Notify.Email.SMTPPort = 587

	cfg.Retention.Days = 30
	return cfg
}

// Load reads a YAML file over the defaults; absent keys keep their
// default values.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
