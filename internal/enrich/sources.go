package enrich

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// SourceList configures which publishers related coverage is pulled from and
// which publisher suffixes get stripped from titles. The defaults match the
// curated allowlist the product launched with; deployments can override them
// with a yaml file.
type SourceList struct {
	// Preferred is the publisher-id allowlist for related-coverage search.
	Preferred []string `yaml:"preferred"`

	// TitleSuffixes are applied in order, each at most once.
	TitleSuffixes []string `yaml:"titleSuffixes"`
}

func DefaultSourceList() SourceList {
	return SourceList{
		Preferred: []string{
			"bbc-news",
			"wall-street-journal",
			"forbes",
			"abc-news",
			"reuters",
			"associated-press",
			"cbs-news",
			"time",
			"espn",
			"cnn",
			"nbc-news",
			"the-new-york-times",
			"the-washington-post",
			"usa-today",
			"financial-times",
			"business-insider",
			"newsweek",
			"the-guardian",
			"the-economist",
			"bloomberg",
			"politico",
			"fox-news",
			"msnbc",
			"axios",
			"independent",
			"propublica",
		},
		TitleSuffixes: []string{
			" - BBC News",
			" - Wall Street Journal",
			" - Forbes",
			" - ABC News",
			" - Reuters",
			" - Associated Press",
			" - CBS News",
			" - Time",
			" | ESPN",
			" | CNN",
			" | NBC News",
			" | The New York Times",
			" | The Washington Post",
			" | USA Today",
			" | Financial Times",
			" | Business Insider",
			" | Newsweek",
			" | The Guardian",
			" | The Economist",
			" | Bloomberg",
			" | Politico",
			" | Fox News",
			" | MSNBC",
			" | Axios",
			" | Independent",
			" | ProPublica",
		},
	}
}

// LoadSourceList reads a yaml override. Missing sections fall back to the
// defaults so a file can override just the allowlist.
func LoadSourceList(r io.Reader) (SourceList, error) {
	list := DefaultSourceList()

	var override SourceList
	if err := yaml.NewDecoder(r).Decode(&override); err != nil {
		return SourceList{}, fmt.Errorf("decode source list: %w", err)
	}

	if len(override.Preferred) > 0 {
		list.Preferred = override.Preferred
	}
	if len(override.TitleSuffixes) > 0 {
		list.TitleSuffixes = override.TitleSuffixes
	}

	return list, nil
}

// LoadSourceListFile is LoadSourceList over a file path.
func LoadSourceListFile(path string) (SourceList, error) {
	f, err := os.Open(path)
	if err != nil {
		return SourceList{}, fmt.Errorf("open source list: %w", err)
	}
	defer f.Close()

	return LoadSourceList(f)
}
