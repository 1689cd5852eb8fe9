package linear

// Option は Ridge の設定を変更する関数
type Option func(*Ridge)

// WithAlpha は L2 正則化の強さを設定する
func WithAlpha(alpha float64) Option {
	return func(r *Ridge) {
		r.Alpha = alpha
	}
}

// WithFitIntercept は切片を学習するかどうかを設定する
func WithFitIntercept(fit bool) Option {
	return func(r *Ridge) {
		r.FitIntercept = fit
	}
}
