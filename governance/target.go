package governance

// TargetRule は目的変数がどの規則で決まったかを表します。
type TargetRule int

const (
	// TargetRequested は呼び出し側が指定した列
	TargetRequested TargetRule = iota
	// TargetPrice は "price" 列
	TargetPrice
	// TargetSalePrice は "sale_price" 列
	TargetSalePrice
	// TargetLastColumn は最後の列へのフォールバック
	TargetLastColumn
	// TargetNone は列が1つもない
	TargetNone
)

func (r TargetRule) String() string {
	switch r {
	case TargetRequested:
		return "requested"
	case TargetPrice:
		return "price"
	case TargetSalePrice:
		return "sale_price"
	case TargetLastColumn:
		return "last_column"
	default:
		return "none"
	}
}

// ResolveTarget は目的変数の列名を決めます。最初に一致した規則が優先されます:
// 指定された列が存在すればそれ、次に "price"、次に "sale_price"、最後に末尾の列。
// columns が空の場合だけ ("", TargetNone) を返します。
func ResolveTarget(columns []string, requested string) (string, TargetRule) {
	if len(columns) == 0 {
		return "", TargetNone
	}
	has := func(name string) bool {
		for _, c := range columns {
			if c == name {
				return true
			}
		}
		return false
	}
	switch {
	case requested != "" && has(requested):
		return requested, TargetRequested
	case has("price"):
		return "price", TargetPrice
	case has("sale_price"):
		return "sale_price", TargetSalePrice
	default:
		return columns[len(columns)-1], TargetLastColumn
	}
}
