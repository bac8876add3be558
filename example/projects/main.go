// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"bytes"
	_ "embed"

	"github.com/z5labs/typedroutes/example/projects/app"

	"github.com/z5labs/typedroutes/web"
)

//go:embed config.yaml
var configBytes []byte

func main() {
	web.Run(bytes.NewReader(configBytes), app.Init)
}
