// Package governance は学習に使ってよい列と目的変数の列を決めます。
//
// 列は許可リストに含まれ、かつ禁止パターンに一致しない場合だけ特徴量になります。
// 禁止パターンは許可リストとは独立した二重の防御です。
package governance

import "strings"

// Policy は許可リストと禁止パターンの組です。値として扱い、生成後は変更しません。
type Policy struct {
	allowList         []string
	forbiddenPatterns []string
}

// NewPolicy は許可リストと禁止パターンから Policy を作成します。
// 許可リストの重複は最初の出現だけを残します。禁止パターンは小文字で保持します。
func NewPolicy(allowList, forbiddenPatterns []string) Policy {
	seen := make(map[string]struct{}, len(allowList))
	allow := make([]string, 0, len(allowList))
	for _, c := range allowList {
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		allow = append(allow, c)
	}
	patterns := make([]string, 0, len(forbiddenPatterns))
	for _, p := range forbiddenPatterns {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			patterns = append(patterns, p)
		}
	}
	return Policy{allowList: allow, forbiddenPatterns: patterns}
}

// DefaultPolicy は業務で承認された住宅価格モデルの Policy を返します。
func DefaultPolicy() Policy {
	return NewPolicy(
		[]string{
			"square_footage",
			"bedrooms",
			"bathrooms",
			"year_built",
			"lot_size",
			"distance_to_city_center",
			"school_rating",
		},
		[]string{"id", "index", "row", "listing"},
	)
}

// AllowList は許可リストのコピーを宣言順で返します。
func (p Policy) AllowList() []string {
	return append([]string(nil), p.allowList...)
}

// IsForbidden は列名が禁止パターンのいずれかを大文字小文字を区別せず含むかを返します。
func (p Policy) IsForbidden(column string) bool {
	lower := strings.ToLower(column)
	for _, pat := range p.forbiddenPatterns {
		if strings.Contains(lower, pat) {
			return true
		}
	}
	return false
}
