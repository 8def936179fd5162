// Command seoaudit runs or serves the technical SEO audit engine.
package main

import (
	cmd "github.com/seoaudit/engine/internal/cli"
)

func main() {
	cmd.Execute()
}
