package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/civicscope/civicscope/internal/config"
	"github.com/civicscope/civicscope/internal/congress"
	"github.com/civicscope/civicscope/internal/database"
	"github.com/civicscope/civicscope/internal/fec"
	"github.com/civicscope/civicscope/internal/ingest"
	"github.com/civicscope/civicscope/internal/logger"
	"github.com/civicscope/civicscope/internal/opensecrets"
	"github.com/civicscope/civicscope/internal/scrape"
	"github.com/civicscope/civicscope/internal/server"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
	log        zerolog.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "civicscope",
	Short:   "Political transparency tracker",
	Long:    "CivicScope collects legislator rosters, campaign finance records, and bills, and serves them with conflict-of-interest analysis.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; real environment variables win either way.
		_ = godotenv.Load()

		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			return nil
		}

		path, err := config.ResolveConfigPath(configPath)
		if err != nil {
			return err
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		level := cfg.Logging.Level
		if verbose {
			level = "debug"
		}
		log = logger.New(level)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(scrapeCmd)
	rootCmd.AddCommand(billsCmd)
	rootCmd.AddCommand(fecidsCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(industriesCmd)
	rootCmd.AddCommand(serveCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("civicscope", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/civicscope/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Println("Set CONGRESS_API_KEY, FEC_API_KEY, and OPENSECRETS_API_KEY in the environment or a .env file.")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database and system status",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.GetStats()
		if err != nil {
			return fmt.Errorf("getting stats: %w", err)
		}

		fmt.Println("Politicians:")
		fmt.Printf("  Total: %d\n", stats.Politicians)
		fmt.Printf("  With FEC ID: %d\n", stats.WithFECID)
		fmt.Println("\nLegislation:")
		fmt.Printf("  Bills: %d\n", stats.Bills)
		fmt.Printf("  Votes: %d\n", stats.Votes)
		fmt.Println("\nFinancial records:")
		fmt.Printf("  Contributions: %d\n", stats.Contributions)
		fmt.Printf("  Investments: %d\n", stats.Investments)
		fmt.Printf("  Expenditures: %d\n", stats.Expenditures)
		fmt.Println("\nReports:")
		fmt.Printf("  Pending: %d\n", stats.PendingReports)
		fmt.Printf("  Total: %d\n", stats.TotalReports)
		return nil
	},
}

// --- scrape command ---

var scrapeForce bool

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape the House and Senate rosters into the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		scraper := scrape.New(cfg.Scrape.HouseURL, cfg.Scrape.SenateURL)
		maxAge := time.Duration(cfg.Scrape.MaxAgeH) * time.Hour
		job := ingest.NewRosterJob(db, scraper, maxAge, log)

		result, err := job.Run(context.Background(), scrapeForce)
		if err != nil {
			return err
		}
		if result.Skipped {
			fmt.Println("Roster is up to date. Use --force to scrape anyway.")
			return nil
		}

		fmt.Println("Roster scrape complete:")
		fmt.Printf("  House members: %d\n", result.House)
		fmt.Printf("  Senators: %d\n", result.Senate)
		fmt.Printf("  Created: %d\n", result.Created)
		fmt.Printf("  Updated: %d\n", result.Updated)
		fmt.Printf("  Failed: %d\n", result.Failed)
		return nil
	},
}

func init() {
	scrapeCmd.Flags().BoolVar(&scrapeForce, "force", false, "Scrape even if the roster is fresh")
}

// --- bills command ---

var billsCmd = &cobra.Command{
	Use:   "bills",
	Short: "Sync recent bills from Congress.gov",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := congressClient()
		if err != nil {
			return err
		}
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		job := ingest.NewBillsJob(db, client, cfg.Congress.Congress, cfg.Congress.BillLimit, log)
		result, err := job.Run(context.Background())
		if err != nil {
			return err
		}

		fmt.Println("Bill sync complete:")
		fmt.Printf("  Found: %d\n", result.Found)
		fmt.Printf("  Saved: %d\n", result.Saved)
		fmt.Printf("  Sponsors linked: %d\n", result.Linked)
		fmt.Printf("  Ambiguous sponsors: %d\n", result.Ambiguous)
		fmt.Printf("  Failed: %d\n", result.Failed)
		return nil
	},
}

// --- fecids command ---

var fecidsCmd = &cobra.Command{
	Use:   "fecids",
	Short: "Resolve FEC candidate IDs for politicians missing one",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := fecClient()
		if err != nil {
			return err
		}
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		job := ingest.NewFECIDJob(db, client, log)
		result, err := job.Run(context.Background())
		if err != nil {
			return err
		}

		fmt.Println("FEC ID resolution complete:")
		fmt.Printf("  Scanned: %d\n", result.Scanned)
		fmt.Printf("  Matched: %d\n", result.Matched)
		fmt.Printf("  Unmatched: %d\n", result.Unmatched)
		fmt.Printf("  Failed: %d\n", result.Failed)
		return nil
	},
}

// --- sync command ---

var syncCmd = &cobra.Command{
	Use:   "sync [name]",
	Short: "Sync campaign finance data for one politician by name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fecAPI, err := fecClient()
		if err != nil {
			return err
		}
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		// Votes ride along when a Congress.gov key is available.
		congressAPI, err := congressClient()
		if err != nil {
			log.Debug().Err(err).Msg("congress key unavailable, skipping vote sync")
			congressAPI = nil
		}

		job := ingest.NewSyncJob(db, fecAPI, congressAPI, cfg.FEC.MinAmountUSD, log)
		result, err := job.Run(context.Background(), args[0])
		if err != nil {
			return err
		}

		fmt.Println("Finance sync complete:")
		if result.Created {
			fmt.Println("  Created new politician record from FEC candidate data")
		}
		fmt.Printf("  Contributions: %d\n", result.Contributions)
		fmt.Printf("  Expenditures: %d\n", result.Expenditures)
		fmt.Printf("  Votes: %d\n", result.Votes)
		fmt.Printf("  Failed: %d\n", result.Failed)
		return nil
	},
}

// --- industries command ---

var industriesCmd = &cobra.Command{
	Use:   "industries [cid]",
	Short: "Show OpenSecrets industry contribution totals for a candidate CID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := config.RequireKey(cfg.OpenSecrets.APIKeyEnv)
		if err != nil {
			return err
		}
		client := opensecrets.New(cfg.OpenSecrets.BaseURL, key)

		industries, err := client.IndustryContributions(context.Background(), args[0])
		if err != nil {
			return err
		}
		if len(industries) == 0 {
			fmt.Println("No industry data found.")
			return nil
		}

		fmt.Printf("Industry contributions for %s:\n", args[0])
		for _, ind := range industries {
			fmt.Printf("  %-40s $%.0f (PACs: $%.0f, individuals: $%.0f)\n",
				ind.IndustryName, ind.Total, ind.PACs, ind.Indivs)
		}
		return nil
	},
}

// --- serve command ---

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		// The proxy route needs the key; the rest of the API works without it.
		congressAPI, err := congressClient()
		if err != nil {
			log.Warn().Err(err).Msg("congress proxy disabled")
			congressAPI = nil
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		fmt.Printf("Starting server at http://localhost:%d\n", port)
		fmt.Println("Press Ctrl+C to stop")
		return server.New(db, congressAPI, log).Run(port)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to run server on (default from config)")
}

func openDB() (*database.DB, error) {
	dataDir := cfg.GetDataDir()
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	dbPath := filepath.Join(dataDir, "civicscope.db")
	return database.Open(dbPath)
}

func congressClient() (*congress.Client, error) {
	key, err := config.RequireKey(cfg.Congress.APIKeyEnv)
	if err != nil {
		return nil, err
	}
	return congress.New(cfg.Congress.BaseURL, key), nil
}

func fecClient() (*fec.Client, error) {
	key, err := config.RequireKey(cfg.FEC.APIKeyEnv)
	if err != nil {
		return nil, err
	}
	return fec.New(cfg.FEC.BaseURL, key, fec.Options{
		MinDelay:   time.Duration(cfg.FEC.MinDelayMS) * time.Millisecond,
		MaxRetries: cfg.FEC.MaxRetries,
	}), nil
}
