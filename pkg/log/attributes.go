package log

// モデルと処理のコンテキスト
const (
	// ModelNameKey はモデルの種類を示します。例: "Ridge", "StandardScaler"
	ModelNameKey = "model.name"

	// ModelVersionKey は学習ごとに払い出されるモデルバージョン(UUID)です。
	ModelVersionKey = "model.version"

	// OperationKey は実行中の処理を示します。"fit", "predict", "transform", "score"
	OperationKey = "ml.operation"

	// ComponentKey は処理を行うコンポーネント名です。
	ComponentKey = "ml.component"

	// PhaseKey はライフサイクル上のフェーズです。"training", "inference"
	PhaseKey = "ml.phase"
)

// データの形状
const (
	SamplesKey  = "data.samples"
	FeaturesKey = "data.features"

	// FeatureNamesKey は使用する特徴量列の一覧です。
	FeatureNamesKey = "data.feature_names"

	// TargetKey は目的変数の列名です。
	TargetKey = "data.target"

	// TargetRuleKey は目的変数がどの規則で決まったかを示します。
	TargetRuleKey = "data.target_rule"

	// PathKey は入出力ファイルのパスです。
	PathKey = "io.path"
)

// 性能と評価指標
const (
	DurationMsKey = "perf.duration_ms"

	R2ScoreKey = "metrics.r2_score"
	MAEKey     = "metrics.mae"
	RMSEKey    = "metrics.rmse"

	// NaiveMAEKey は学習平均を常に予測するベースラインのMAEです。
	NaiveMAEKey = "metrics.naive_mae"

	// RegularizationKey は正則化の強さ(alpha)です。
	RegularizationKey = "hyperparams.regularization"
)

// 予測
const (
	PredsKey     = "preds.count"
	PredsMeanKey = "preds.mean"
	PredsMinKey  = "preds.min"
	PredsMaxKey  = "preds.max"
)

// エラーと警告
const (
	ErrorCodeKey  = "error.code"
	StacktraceKey = "error.stacktrace"
)

// 標準の値
const (
	OperationFit       = "fit"
	OperationPredict   = "predict"
	OperationSave      = "save"
	OperationLoad      = "load"

	PhaseTraining      = "training"
	PhaseInference     = "inference"
	PhasePreprocessing = "preprocessing"

	ErrorNotFitted         = "NOT_FITTED"
	ErrorDimensionMismatch = "DIMENSION_MISMATCH"
	ErrorEmptyData         = "EMPTY_DATA"
	ErrorInvalidInput      = "INVALID_INPUT"
	ErrorSingularMatrix    = "SINGULAR_MATRIX"
)
