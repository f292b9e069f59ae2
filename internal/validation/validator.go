package validation

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/config"
	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/domain"
)

// シーン種別ごとの所要時間モデルです。(秒)
const (
	dialogueBaseSeconds      = 20
	dialogueLineSeconds      = 5
	quizQuestionSeconds      = 30
	assessmentBaseSeconds    = 90
	assessmentSectionSeconds = 30
)

// 読み込み時間の見積もりモデルです。サイズに対して単調増加します。
const (
	baseLoadMS      = 120
	loadBytesPerMS  = 500
	loadWarnMS      = 2000
	loadErrorMS     = 5000
	budgetWarnRatio = 0.8
)

// Validator は、投入されたマニフェストの構造検証と意味検証を行います。
// 入力に対して純粋で、副作用を持ちません。
type Validator struct {
	schema           *jsonschema.Schema
	maxContentBytes  int
	sessionBudget    time.Duration
	validationBudget time.Duration
}

// New はスキーマをコンパイルして Validator を作成します。
func New(cfg *config.Config) (*Validator, error) {
	c := jsonschema.NewCompiler()
	if err := c.AddResource("game-manifest.json", strings.NewReader(manifestSchema)); err != nil {
		return nil, fmt.Errorf("failed to register manifest schema: %w", err)
	}
	schema, err := c.Compile("game-manifest.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile manifest schema: %w", err)
	}

	return &Validator{
		schema:           schema,
		maxContentBytes:  cfg.MaxContentBytes,
		sessionBudget:    cfg.SessionBudget,
		validationBudget: cfg.ValidationBudget,
	}, nil
}

// Validate はマニフェストを検証し、判定結果を返します。
// エラーは途中で打ち切らずに蓄積します。投入側が1往復で全問題を把握するためです。
func (v *Validator) Validate(ctx context.Context, manifest domain.GameManifest) domain.ValidationReport {
	started := time.Now()

	report := domain.ValidationReport{
		Errors:   []string{},
		Warnings: []string{},
	}

	// 1. 直列化サイズの計測 (読み込み見積もりと予算判定の基礎値)
	raw, err := json.Marshal(manifest)
	if err != nil {
		// マニフェストは復号済みの構造体なので、ここに来るのはプログラミングエラーのみ
		report.Errors = append(report.Errors, fmt.Sprintf("manifest is not serializable: %v", err))
		report.IsValid = false
		return report
	}
	report.Performance.ContentSizeBytes = len(raw)
	report.Performance.EstimatedLoadTimeMS = baseLoadMS + len(raw)/loadBytesPerMS

	// 2. スキーマによる構造検証
	report.Errors = append(report.Errors, v.structuralErrors(raw)...)

	// 3. 意味検証 (シーン間の整合性と種別固有ルール)
	report.Errors = append(report.Errors, sceneErrors(manifest)...)

	// 4. 予算判定 (サイズ、所要時間、読み込み見積もり)
	v.applyBudgets(manifest, &report)

	report.IsValid = len(report.Errors) == 0

	// 検証自体の性能契約。超過は中断せず記録に留めます。
	if elapsed := time.Since(started); elapsed > v.validationBudget {
		slog.WarnContext(ctx, "manifest validation exceeded its time budget",
			"elapsed", elapsed.String(),
			"budget", v.validationBudget.String(),
			"content_size", report.Performance.ContentSizeBytes,
		)
	}

	return report
}

// structuralErrors はスキーマ違反を利用者向けメッセージの一覧へ変換します。
func (v *Validator) structuralErrors(raw []byte) []string {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return []string{fmt.Sprintf("manifest is not valid JSON: %v", err)}
	}

	err := v.schema.Validate(doc)
	if err == nil {
		return nil
	}

	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []string{err.Error()}
	}

	var out []string
	for _, leaf := range leafCauses(ve) {
		out = append(out, fmt.Sprintf("manifest%s: %s", leaf.InstanceLocation, leaf.Message))
	}
	return out
}

// leafCauses は入れ子の検証エラーから末端の原因のみを抽出します。
func leafCauses(ve *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return []*jsonschema.ValidationError{ve}
	}
	var out []*jsonschema.ValidationError
	for _, c := range ve.Causes {
		out = append(out, leafCauses(c)...)
	}
	return out
}

// sceneErrors はシーン種別ごとのルールを検査します。
func sceneErrors(manifest domain.GameManifest) []string {
	var errs []string

	seen := make(map[string]bool, len(manifest.Scenes))
	for _, scene := range manifest.Scenes {
		if scene.ID != "" && seen[scene.ID] {
			errs = append(errs, fmt.Sprintf("scene %q: duplicate scene id", scene.ID))
		}
		seen[scene.ID] = true

		if !domain.KnownSceneType(scene.Type) {
			// 未知の種別はスキーマも報告するため、ここでは内容検証へ進まないだけ
			continue
		}
		if len(scene.Content) == 0 {
			continue
		}

		content, err := scene.DecodeContent()
		if err != nil {
			errs = append(errs, err.Error())
			continue
		}

		switch c := content.(type) {
		case domain.DialogueContent:
			errs = append(errs, dialogueErrors(scene.ID, c)...)
		case domain.QuizContent:
			errs = append(errs, quizErrors(scene.ID, c)...)
		case domain.AssessmentContent:
			errs = append(errs, assessmentErrors(scene.ID, c)...)
		}
	}

	return errs
}

func dialogueErrors(sceneID string, c domain.DialogueContent) []string {
	var errs []string
	if len(c.Lines) == 0 {
		errs = append(errs, fmt.Sprintf("scene %q: dialogue requires at least 1 line", sceneID))
	}
	for i, line := range c.Lines {
		if strings.TrimSpace(line.Text) == "" {
			errs = append(errs, fmt.Sprintf("scene %q: dialogue line %d has no text", sceneID, i+1))
		}
	}
	return errs
}

func quizErrors(sceneID string, c domain.QuizContent) []string {
	var errs []string
	if len(c.Questions) == 0 {
		errs = append(errs, fmt.Sprintf("scene %q: quiz requires at least 1 question", sceneID))
	}
	for i, q := range c.Questions {
		if len(q.Options) < 2 {
			errs = append(errs, fmt.Sprintf("scene %q: question %d requires at least 2 options", sceneID, i+1))
		}
		correct := 0
		for _, opt := range q.Options {
			if opt.Correct {
				correct++
			}
		}
		if len(q.Options) >= 2 && correct == 0 {
			errs = append(errs, fmt.Sprintf("scene %q: question %d has no correct option", sceneID, i+1))
		}
	}
	return errs
}

func assessmentErrors(sceneID string, c domain.AssessmentContent) []string {
	if c.PassingScore < 0 || c.PassingScore > 100 {
		return []string{fmt.Sprintf("scene %q: passingScore must be between 0 and 100", sceneID)}
	}
	return nil
}

// applyBudgets はサイズと所要時間の予算を判定し、警告またはエラーを追記します。
func (v *Validator) applyBudgets(manifest domain.GameManifest, report *domain.ValidationReport) {
	size := report.Performance.ContentSizeBytes
	switch {
	case size > v.maxContentBytes:
		report.Errors = append(report.Errors, fmt.Sprintf(
			"content size %d bytes exceeds the %d byte budget", size, v.maxContentBytes))
	case float64(size) >= float64(v.maxContentBytes)*budgetWarnRatio:
		report.Warnings = append(report.Warnings, fmt.Sprintf(
			"content size %d bytes is approaching the %d byte budget", size, v.maxContentBytes))
	}

	estimated := EstimateSessionDuration(manifest)
	switch {
	case estimated > v.sessionBudget:
		report.Errors = append(report.Errors, fmt.Sprintf(
			"estimated session duration %s exceeds the %s budget", estimated, v.sessionBudget))
	case float64(estimated) >= float64(v.sessionBudget)*budgetWarnRatio:
		report.Warnings = append(report.Warnings, fmt.Sprintf(
			"estimated session duration %s is approaching the %s budget", estimated, v.sessionBudget))
	}

	switch loadMS := report.Performance.EstimatedLoadTimeMS; {
	case loadMS > loadErrorMS:
		report.Errors = append(report.Errors, fmt.Sprintf(
			"estimated load time %dms exceeds the %dms limit", loadMS, loadErrorMS))
	case loadMS > loadWarnMS:
		report.Warnings = append(report.Warnings, fmt.Sprintf(
			"estimated load time %dms is approaching the %dms limit", loadMS, loadErrorMS))
	}
}

// EstimateSessionDuration は、シーン構成から受講の所要時間を見積もります。
// 復号できない内容は 0 として扱います。検証エラーは別途報告されるためです。
func EstimateSessionDuration(manifest domain.GameManifest) time.Duration {
	var total time.Duration
	for _, scene := range manifest.Scenes {
		if !domain.KnownSceneType(scene.Type) || len(scene.Content) == 0 {
			continue
		}
		content, err := scene.DecodeContent()
		if err != nil {
			continue
		}
		switch c := content.(type) {
		case domain.DialogueContent:
			total += time.Duration(dialogueBaseSeconds+dialogueLineSeconds*len(c.Lines)) * time.Second
		case domain.QuizContent:
			total += time.Duration(quizQuestionSeconds*len(c.Questions)) * time.Second
		case domain.AssessmentContent:
			total += time.Duration(assessmentBaseSeconds+assessmentSectionSeconds*len(c.Sections)) * time.Second
		}
	}
	return total
}
