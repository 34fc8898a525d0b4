package tokenizer

import (
	"errors"

	"github.com/pkoukk/tiktoken-go"
)

// tiktokenCounter counts tokens with an OpenAI BPE encoding.
type tiktokenCounter struct {
	encoder      *tiktoken.Tiktoken
	encodingName string
}

func (counter tiktokenCounter) Name() string {
	return counter.encodingName
}

func (counter tiktokenCounter) CountString(input string) (int, error) {
	if counter.encoder == nil {
		return 0, errors.New("tokenizer encoder not initialized")
	}
	return len(counter.encoder.Encode(input, nil, nil)), nil
}
