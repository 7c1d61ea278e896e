// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-agent/pkg/types"
)

// batteryCategory is one category block in a question battery, as written
// in a battery YAML file.
type batteryCategory struct {
	Category  string   `yaml:"category"`
	Questions []string `yaml:"questions"`
}

// batteryFile is the on-disk representation of a question battery. The
// researcher can replace the built-in battery without rebuilding.
type batteryFile struct {
	Categories []batteryCategory `yaml:"categories"`
}

// defaultBattery is the built-in question battery for studying how a paper
// is written. Category order and question order define the report layout.
var defaultBattery = []batteryCategory{
	{
		Category: "Basic Information",
		Questions: []string{
			"What venue (journal or conference) published this paper, and how authoritative is that venue in its field?",
			"What research field does this paper belong to, and what is its main research direction?",
			"What are the paper's main innovations, and how do they advance beyond existing work?",
		},
	},
	{
		Category: "Structure & Writing",
		Questions: []string{
			"Which aspects of the research work does the paper present (e.g. problem definition, method design, experimental validation, results analysis)?",
			"How did the authors order these aspects, and how are the logical connections between them arranged?",
			"What is the main content of each section, and how do the sections transition and connect?",
			"What do the abstract and the conclusion each emphasize, and how do they echo one another?",
		},
	},
	{
		Category: "Figures & Tables",
		Questions: []string{
			"Which figures and tables does the paper include, and which aspect of the work does each one present?",
			"How are the figures and tables positioned in the paper, and how do they relate to the surrounding text?",
			"Which figures or tables best convey the paper's core contributions and innovations?",
			"What characterizes the design of the figures (color, layout, annotation), and how do they help readers understand the content?",
		},
	},
	{
		Category: "Writing Advice",
		Questions: []string{
			"If I were to publish similar work, how should I organize the paper's structure?",
			"Which parts of the work deserve emphasis in the paper? What needs detailed description and what can stay brief?",
			"Which parts of the work should be presented as figures or tables, and how should those be designed?",
			"What characterizes the paper's language, and how does it stay academic while remaining readable?",
			"What is worth learning from this paper's writing, and what could be improved?",
		},
	},
	{
		Category: "Deeper Analysis",
		Questions: []string{
			"What core problem does the paper solve, and why does that problem matter?",
			"What is distinctive about the methodology, and why did the authors choose this approach?",
			"How does the experimental design validate the core hypotheses, and how complete and convincing are the experiments?",
			"What are the paper's limitations, and what future research directions follow from them?",
			"What inspiration does this paper offer for the reader's own research?",
		},
	},
}

// DefaultQuestions returns the built-in battery as a flat ordered question
// list. The slice is freshly allocated; callers may not mutate shared state
// through it.
func DefaultQuestions() []types.Question {
	return flatten(defaultBattery)
}

// LoadQuestions parses a battery YAML file into an ordered question list.
// An empty battery, an unnamed category, or a blank question is rejected.
func LoadQuestions(path string) ([]types.Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading questions file: %w", err)
	}

	var bf batteryFile
	if err := yaml.Unmarshal(data, &bf); err != nil {
		return nil, fmt.Errorf("parsing questions file %s: %w", path, err)
	}

	if len(bf.Categories) == 0 {
		return nil, fmt.Errorf("questions file %s defines no categories", path)
	}
	for i, cat := range bf.Categories {
		if cat.Category == "" {
			return nil, fmt.Errorf("questions file %s: category %d has no name", path, i)
		}
		if len(cat.Questions) == 0 {
			return nil, fmt.Errorf("questions file %s: category %q has no questions", path, cat.Category)
		}
		for j, q := range cat.Questions {
			if q == "" {
				return nil, fmt.Errorf("questions file %s: category %q question %d is empty", path, cat.Category, j)
			}
		}
	}

	return flatten(bf.Categories), nil
}

// flatten turns category blocks into the flat ordered list the analyzer
// consumes, preserving category and question order.
func flatten(cats []batteryCategory) []types.Question {
	var qs []types.Question
	for _, cat := range cats {
		for _, text := range cat.Questions {
			qs = append(qs, types.Question{Category: cat.Category, Text: text})
		}
	}
	return qs
}
