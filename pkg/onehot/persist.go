package onehot

import (
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/reelmap/pkg/constants"
	"github.com/agentstation/reelmap/pkg/errors"
)

// vocabularyFile is the on-disk form of a Vocabulary.
type vocabularyFile struct {
	Genres []string `yaml:"genres"`
}

// SaveVocabulary writes v to path as YAML, creating parent directories.
func SaveVocabulary(path string, v Vocabulary) error {
	data, err := yaml.MarshalWithOptions(vocabularyFile{Genres: v}, yaml.IndentSequence(true))
	if err != nil {
		return errors.WrapParse("yaml", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
		return errors.WrapIO("create", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, constants.FilePermissions); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

// LoadVocabulary reads a vocabulary written by SaveVocabulary.
// The names are re-sorted and deduplicated, so hand-edited files are accepted.
func LoadVocabulary(path string) (Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &errors.NotFoundError{Resource: "vocabulary", ID: path}
		}
		return nil, errors.WrapIO("read", path, err)
	}

	var file vocabularyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	return NewVocabulary(file.Genres...), nil
}
