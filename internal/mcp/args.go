package mcp

import (
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/mark3labs/mcp-go/mcp"
)

// commandArgs are the arguments of the vibe_command tool.
type commandArgs struct {
	Command string `json:"command"`
	Code    string `json:"code"`
}

// line joins the command and optional code into the text Parse expects.
func (a commandArgs) line() string {
	if a.Code == "" {
		return a.Command
	}
	return strings.TrimRight(a.Command, "\n") + "\n" + a.Code
}

// fileArgs are the arguments of tools that take a single file.
type fileArgs struct {
	File string `json:"file"`
}

// bindArguments decodes the request arguments into target by json tag.
// Scalars are weakly typed since some clients send everything as strings.
func bindArguments(request mcp.CallToolRequest, target any) error {
	if _, ok := request.GetRawArguments().(map[string]any); !ok {
		return fmt.Errorf("invalid arguments format")
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           target,
		TagName:          "json",
	})
	if err != nil {
		return err
	}
	return decoder.Decode(request.GetArguments())
}
