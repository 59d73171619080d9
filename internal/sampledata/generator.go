// Package sampledata generates deterministic demo datasets: weekly
// snapshot CSVs, a score-rule table and a weeks index, shaped like the
// real game exports.
package sampledata

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clanhq/chestboard/internal/domain/model"
)

// Default generation constants.
const (
	defaultPlayers  = 50
	defaultWeeks    = 4
	defaultSeed     = 42
	defaultMaxLevel = 5
	maxChestsPerCat = 12
	premiumOdds     = 4 // one in premiumOdds players is premium
)

// defaultCategories are the chest types present in the exports.
var defaultCategories = []string{"Gold", "Silver", "Wood", "Ancient", "Epic"}

var nameSyllables = []string{"ka", "ro", "mi", "ta", "ve", "lor", "an", "dris", "gul", "sha", "ber", "nix"}

// Config controls dataset generation.
type Config struct {
	Players    int
	Weeks      int
	Seed       int64
	Categories []string
	MaxLevel   int
}

// WithDefaults fills zero fields with defaults.
func (c Config) WithDefaults() Config {
	if c.Players <= 0 {
		c.Players = defaultPlayers
	}
	if c.Weeks <= 0 {
		c.Weeks = defaultWeeks
	}
	if c.Seed == 0 {
		c.Seed = defaultSeed
	}
	if len(c.Categories) == 0 {
		c.Categories = defaultCategories
	}
	if c.MaxLevel <= 0 {
		c.MaxLevel = defaultMaxLevel
	}
	return c
}

// WeekFile is one generated snapshot.
type WeekFile struct {
	Descriptor model.WeekDescriptor
	CSV        string
}

// Dataset is a complete generated data directory in memory.
type Dataset struct {
	Weeks []WeekFile
	Rules string
	Index []model.WeekDescriptor
}

// Generate produces a dataset. The same config always yields the same
// bytes; the seed drives a private PRNG.
func Generate(cfg Config) Dataset {
	cfg = cfg.WithDefaults()
	rng := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // deterministic demo data

	names := make([]string, cfg.Players)
	ids := make([]string, cfg.Players)
	premium := make([]bool, cfg.Players)
	for i := range names {
		names[i] = randomName(rng)
		// UUIDs come from the seeded PRNG so the whole dataset is
		// reproducible byte for byte.
		id, err := uuid.NewRandomFromReader(rng)
		if err != nil {
			id = uuid.Nil
		}
		ids[i] = id.String()
		premium[i] = rng.Intn(premiumOdds) == 0
	}

	categoryKeys := make([]string, 0, len(cfg.Categories)*cfg.MaxLevel)
	for _, cat := range cfg.Categories {
		for lvl := 1; lvl <= cfg.MaxLevel; lvl++ {
			categoryKeys = append(categoryKeys, fmt.Sprintf("%s_%d", cat, lvl))
		}
	}

	ds := Dataset{Rules: rulesCSV(cfg)}
	end := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for w := 0; w < cfg.Weeks; w++ {
		weekID := fmt.Sprintf("%d", 10+w)
		desc := model.WeekDescriptor{
			WeekID:     weekID,
			SourceFile: fmt.Sprintf("week_%s.csv", weekID),
			StartDate:  end.AddDate(0, 0, -6).Format("2006-01-02"),
			EndDate:    end.Format("2006-01-02"),
		}
		ds.Weeks = append(ds.Weeks, WeekFile{
			Descriptor: desc,
			CSV:        weekCSV(rng, names, ids, premium, categoryKeys),
		})
		ds.Index = append(ds.Index, desc)
		end = end.AddDate(0, 0, 7)
	}
	return ds
}

func weekCSV(rng *rand.Rand, names, ids []string, premium []bool, categoryKeys []string) string {
	var b strings.Builder
	b.WriteString("PLAYER,ID,PREMIUM,CHEST_COUNT")
	for _, key := range categoryKeys {
		b.WriteString("," + key)
	}
	b.WriteString("\n")

	for i, name := range names {
		counts := make([]int, len(categoryKeys))
		total := 0
		for c := range counts {
			if rng.Intn(3) == 0 {
				counts[c] = rng.Intn(maxChestsPerCat)
				total += counts[c]
			}
		}
		fmt.Fprintf(&b, "%s,%s,%t,%d", name, ids[i], premium[i], total)
		for _, n := range counts {
			if n == 0 {
				b.WriteString(",")
			} else {
				fmt.Fprintf(&b, ",%d", n)
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// rulesCSV writes the rule table with the legacy German headers, plus
// a KEIN row per type so levelless chests score too.
func rulesCSV(cfg Config) string {
	var b strings.Builder
	b.WriteString("Typ,Stufe,Punkte\n")
	for _, cat := range cfg.Categories {
		for lvl := 1; lvl <= cfg.MaxLevel; lvl++ {
			fmt.Fprintf(&b, "%s,%d,%d\n", cat, lvl, lvl*10)
		}
		fmt.Fprintf(&b, "%s,KEIN,5\n", cat)
	}
	return b.String()
}

func randomName(rng *rand.Rand) string {
	parts := 2 + rng.Intn(2)
	var b strings.Builder
	for i := 0; i < parts; i++ {
		s := nameSyllables[rng.Intn(len(nameSyllables))]
		if i == 0 {
			s = strings.ToUpper(s[:1]) + s[1:]
		}
		b.WriteString(s)
	}
	return b.String()
}
