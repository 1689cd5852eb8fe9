package governance

import (
	"github.com/YuminosukeSato/hpml/pkg/errors"
	"github.com/YuminosukeSato/hpml/pkg/log"
)

// Report は列ガバナンスの判断結果です。
type Report struct {
	// Usable は特徴量として使う列。許可リストの宣言順で重複なし
	Usable []string
	// MissingAllowed は許可リストにあるがデータに存在しない列
	MissingAllowed []string
	// DroppedForbidden は禁止パターンに一致したため除外した列
	DroppedForbidden []string
	// Excluded はデータに存在するが呼び出し側の指定で特徴量から外した列(目的変数など)
	Excluded []string
}

// Governor は Policy に従って使用可能な特徴量を決めます。
type Governor struct {
	policy Policy
	logger log.Logger
}

// NewGovernor は policy を使う Governor を作成します。logger が nil ならパッケージのロガーを使います。
func NewGovernor(policy Policy, logger log.Logger) *Governor {
	if logger == nil {
		logger = log.GetLoggerWithName("governance")
	}
	return &Governor{policy: policy, logger: logger}
}

// Policy は Governor が使う Policy を返します。
func (g *Governor) Policy() Policy {
	return g.policy
}

// Govern は columns のうち許可リストにあり、禁止パターンに一致しない列を返します。
// exclude の列は存在する列として扱いますが、特徴量にはしません。
// 非致命的な判断は警告としてログと errors.Warn に必ず通知します。
// 使える列が1つも残らなければ NoUsableFeaturesError を返します。
func (g *Governor) Govern(columns []string, exclude ...string) (*Report, error) {
	present := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		present[c] = struct{}{}
	}
	excluded := make(map[string]struct{}, len(exclude))
	for _, c := range exclude {
		excluded[c] = struct{}{}
	}

	report := &Report{}
	for _, c := range g.policy.allowList {
		if _, ok := present[c]; !ok {
			report.MissingAllowed = append(report.MissingAllowed, c)
			continue
		}
		if _, ok := excluded[c]; ok {
			report.Excluded = append(report.Excluded, c)
			continue
		}
		if g.policy.IsForbidden(c) {
			continue
		}
		report.Usable = append(report.Usable, c)
	}
	// 禁止パターンはデータ上の全列に対して報告する
	for _, c := range columns {
		if _, ok := excluded[c]; ok {
			continue
		}
		if g.policy.IsForbidden(c) {
			report.DroppedForbidden = append(report.DroppedForbidden, c)
		}
	}

	if len(report.MissingAllowed) > 0 {
		w := errors.NewGovernanceWarning(errors.GovernanceMissingAllowed, report.MissingAllowed)
		g.logger.Warn(w.Error(), "columns", report.MissingAllowed)
		errors.Warn(w)
	}
	if len(report.DroppedForbidden) > 0 {
		w := errors.NewGovernanceWarning(errors.GovernanceDroppedForbidden, report.DroppedForbidden)
		g.logger.Warn(w.Error(), "columns", report.DroppedForbidden)
		errors.Warn(w)
	}

	if len(report.Usable) == 0 {
		return report, errors.NewNoUsableFeaturesError(g.policy.AllowList(), report.DroppedForbidden)
	}
	g.logger.Info("Features selected", log.FeatureNamesKey, report.Usable, log.FeaturesKey, len(report.Usable))
	return report, nil
}
