// Package artifact は学習済みモデルのバンドルとメタデータを保存・読み込みします。
//
// バンドルは gob 形式の不透明なバイナリ、メタデータは人が読めるインデント付きJSONです。
// どちらも学習でのみ作成され、再学習時に丸ごと上書きされます。
package artifact

import (
	"github.com/YuminosukeSato/hpml/core/model"
	"github.com/YuminosukeSato/hpml/pipeline"
	"github.com/YuminosukeSato/hpml/pkg/errors"
	"github.com/YuminosukeSato/hpml/training"
)

// DefaultTarget は目的変数名が記録されていない古いバンドルで使う列名
const DefaultTarget = "price"

// Bundle は学習済みパイプラインと推論時の列の契約です。
type Bundle struct {
	Pipeline *pipeline.Pipeline
	// FeaturesUsed は推論時に選択する列の順序
	FeaturesUsed []string
	// Features は FeaturesUsed 導入前のバンドルが持っていた同じ内容の列
	Features []string
	Target   string
	// ModelVersion は学習ごとに払い出されるUUID
	ModelVersion string
}

// featureListKeys は特徴量リストを探す順序。最初に空でない値を返したものを使う。
var featureListKeys = []struct {
	name string
	get  func(*Bundle) []string
}{
	{"features_used", func(b *Bundle) []string { return b.FeaturesUsed }},
	{"features", func(b *Bundle) []string { return b.Features }},
}

// FeatureList はバンドルの特徴量リストと、それを読んだキー名を返します。
func (b *Bundle) FeatureList() ([]string, string) {
	for _, k := range featureListKeys {
		if v := k.get(b); len(v) > 0 {
			return append([]string(nil), v...), k.name
		}
	}
	return nil, ""
}

// TargetName は目的変数名を返します。記録がなければ DefaultTarget です。
func (b *Bundle) TargetName() string {
	if b.Target == "" {
		return DefaultTarget
	}
	return b.Target
}

// NewBundle は学習結果からバンドルを作成します。
func NewBundle(res *training.Result) *Bundle {
	return &Bundle{
		Pipeline:     res.Pipeline,
		FeaturesUsed: append([]string(nil), res.FeaturesUsed...),
		Target:       res.Target,
		ModelVersion: res.ModelVersion,
	}
}

// SaveBundle はバンドルを path に gob 形式で保存します。
func SaveBundle(path string, b *Bundle) error {
	if b == nil || !b.Pipeline.IsFitted() {
		return errors.NewNotFittedError("Bundle", "SaveBundle")
	}
	if err := model.SaveModel(b, path); err != nil {
		return errors.Wrapf(err, "save bundle %s", path)
	}
	return nil
}

// LoadBundle は path からバンドルを読み込みます。
// 特徴量リストが見つからない、またはパイプラインが未学習の場合はエラーです。
func LoadBundle(path string) (*Bundle, error) {
	var b Bundle
	if err := model.LoadModel(&b, path); err != nil {
		return nil, errors.Wrapf(err, "load bundle %s", path)
	}
	if !b.Pipeline.IsFitted() {
		return nil, errors.NewModelError("LoadBundle", "bundle does not contain a fitted pipeline", nil)
	}
	if features, _ := b.FeatureList(); len(features) == 0 {
		return nil, errors.NewModelError("LoadBundle", "bundle has no feature list", nil)
	}
	return &b, nil
}
