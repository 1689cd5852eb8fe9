// Command hpml はガバナンス付きの住宅価格回帰モデルを学習・推論します。
package main

import (
	"os"

	"github.com/YuminosukeSato/hpml/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
