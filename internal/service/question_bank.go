package service

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed questions.yaml
var defaultQuestionBank []byte

type QuestionStage struct {
	Type      string   `yaml:"qtype"`
	Count     int      `yaml:"count"`
	Questions []string `yaml:"questions"`
}

// QuestionBank is the fixed script of canned questions, picked by position
// within an interview.
type QuestionBank struct {
	Stages []QuestionStage `yaml:"stages"`
}

type BankQuestion struct {
	Type string
	Text string
}

// LoadQuestionBank reads path, or the embedded bank when path is empty.
func LoadQuestionBank(path string) (*QuestionBank, error) {
	data := defaultQuestionBank
	if strings.TrimSpace(path) != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read question bank %s: %w", path, err)
		}
		data = raw
	}
	return ParseQuestionBank(data)
}

func ParseQuestionBank(data []byte) (*QuestionBank, error) {
	var bank QuestionBank
	if err := yaml.Unmarshal(data, &bank); err != nil {
		return nil, fmt.Errorf("parse question bank: %w", err)
	}
	if err := bank.validate(); err != nil {
		return nil, err
	}
	return &bank, nil
}

func (b *QuestionBank) validate() error {
	if len(b.Stages) == 0 {
		return fmt.Errorf("question bank has no stages")
	}
	for i, stage := range b.Stages {
		if strings.TrimSpace(stage.Type) == "" {
			return fmt.Errorf("stage %d has no qtype", i+1)
		}
		if len(stage.Questions) == 0 {
			return fmt.Errorf("stage %d (%s) has no questions", i+1, stage.Type)
		}
		if stage.Count < 0 {
			return fmt.Errorf("stage %d (%s) has a negative count", i+1, stage.Type)
		}
	}
	return nil
}

// At returns the question for a 0-based step. Past the last stage, the last
// stage keeps cycling.
func (b *QuestionBank) At(step int) BankQuestion {
	if step < 0 {
		step = 0
	}

	for i, stage := range b.Stages {
		last := i == len(b.Stages)-1
		if stage.Count == 0 || last || step < stage.Count {
			return BankQuestion{Type: stage.Type, Text: stage.Questions[step%len(stage.Questions)]}
		}
		step -= stage.Count
	}

	// unreachable: the last stage always matches
	return BankQuestion{}
}
