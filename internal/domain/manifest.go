package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// SceneType は、学習シーンの種別を表します。
type SceneType string

const (
	// SceneTypeDialogue は会話形式のシーンです。
	SceneTypeDialogue SceneType = "dialogue"
	// SceneTypeQuiz は選択式クイズのシーンです。
	SceneTypeQuiz SceneType = "quiz"
	// SceneTypeAssessment は修了判定を伴う評価シーンです。
	SceneTypeAssessment SceneType = "assessment"
)

// KnownSceneType は、t が定義済みのシーン種別かどうかを判定します。
func KnownSceneType(t SceneType) bool {
	switch t {
	case SceneTypeDialogue, SceneTypeQuiz, SceneTypeAssessment:
		return true
	default:
		return false
	}
}

// GameManifest は、DevTeam パイプラインに投入される学習ゲームの定義一式です。
// AI 生成側が JSON で組み立て、このサービスが検証から配備まで面倒を見ます。
type GameManifest struct {
	// GameID は投入側が採番する識別子です。(例: "malmo-gdpr-101")
	GameID string `json:"gameId"`
	// Metadata はタイトルや対象者などの付帯情報です。
	Metadata GameMetadata `json:"metadata"`
	// Scenes は順序付きのシーン列です。1件以上が必須です。
	Scenes []Scene `json:"scenes"`
}

// GameMetadata は、マニフェストの付帯情報です。
type GameMetadata struct {
	// Title は学習コンテンツの表示名です。
	Title string `json:"title"`
	// Description は概要文です。
	Description string `json:"description,omitempty"`
	// Duration は申告上の想定プレイ時間です。(秒単位)
	Duration int `json:"duration,omitempty"`
	// LearningObjectives は学習目標の一覧です。
	LearningObjectives []string `json:"learningObjectives,omitempty"`
	// TargetAudience は想定する受講者層です。(例: "municipal-employees")
	TargetAudience string `json:"targetAudience,omitempty"`
	// Language はコンテンツの言語コードです。(例: "sv", "de")
	Language string `json:"language,omitempty"`
	// Version は投入側が管理するコンテンツのバージョンです。
	Version string `json:"version,omitempty"`
}

// Scene は、学習者との1単位のやり取りを表します。
// Content は Type に応じた可変部で、DecodeContent で型付きの値へ変換します。
type Scene struct {
	ID    string    `json:"id"`
	Type  SceneType `json:"type"`
	Title string    `json:"title,omitempty"`
	// Content は種別固有の内容です。検証を通るまでは生の JSON のまま保持します。
	Content json.RawMessage `json:"content"`

	// Processed は変換段階を通過済みであることを示します。(冪等性とデバッグ用)
	Processed bool `json:"processed,omitempty"`
	// ProcessedAt は変換段階を通過した時刻です。
	ProcessedAt *time.Time `json:"processedAt,omitempty"`
}

// SceneContent は、シーン種別ごとの内容を表す閉じたインターフェースです。
// 種別の追加はここに実装を足し、各段階の switch を更新することで完結します。
type SceneContent interface {
	sceneContent()
}

// DialogueContent は会話シーンの内容です。
type DialogueContent struct {
	// Speaker は既定の話者名です。(行ごとの話者が省略された場合に使用)
	Speaker string `json:"speaker,omitempty"`
	// Lines は会話の行です。
	Lines []DialogueLine `json:"lines"`
}

// DialogueLine は会話の1行です。
type DialogueLine struct {
	Speaker string `json:"speaker,omitempty"`
	Text    string `json:"text"`
}

// QuizContent は選択式クイズシーンの内容です。
type QuizContent struct {
	Questions []QuizQuestion `json:"questions"`
}

// QuizQuestion は1問のクイズです。選択肢は2件以上、正解は1件以上が必須です。
type QuizQuestion struct {
	ID      string       `json:"id,omitempty"`
	Text    string       `json:"text"`
	Options []QuizOption `json:"options"`
}

// QuizOption はクイズの選択肢です。
type QuizOption struct {
	ID      string `json:"id,omitempty"`
	Text    string `json:"text"`
	Correct bool   `json:"correct,omitempty"`
}

// AssessmentContent は評価シーンの内容です。SCORM 形式の修了判定に使われます。
type AssessmentContent struct {
	// PassingScore は合格閾値です。(百分率、省略時は既定値)
	PassingScore int `json:"passingScore,omitempty"`
	// Sections は評価の区分です。
	Sections []AssessmentSection `json:"sections,omitempty"`
}

// AssessmentSection は評価の1区分です。
type AssessmentSection struct {
	Title  string `json:"title,omitempty"`
	Weight int    `json:"weight,omitempty"`
}

func (DialogueContent) sceneContent()   {}
func (QuizContent) sceneContent()       {}
func (AssessmentContent) sceneContent() {}

// DecodeContent は、Type に対応する型へ Content を復号します。
// 未知の種別は呼び出し側で検証エラーに変換するため、そのままエラーとして返します。
func (s Scene) DecodeContent() (SceneContent, error) {
	switch s.Type {
	case SceneTypeDialogue:
		var c DialogueContent
		if err := json.Unmarshal(s.Content, &c); err != nil {
			return nil, fmt.Errorf("scene %q: dialogue content: %w", s.ID, err)
		}
		return c, nil
	case SceneTypeQuiz:
		var c QuizContent
		if err := json.Unmarshal(s.Content, &c); err != nil {
			return nil, fmt.Errorf("scene %q: quiz content: %w", s.ID, err)
		}
		return c, nil
	case SceneTypeAssessment:
		var c AssessmentContent
		if err := json.Unmarshal(s.Content, &c); err != nil {
			return nil, fmt.Errorf("scene %q: assessment content: %w", s.ID, err)
		}
		return c, nil
	default:
		return nil, fmt.Errorf("scene %q: unknown scene type %q", s.ID, s.Type)
	}
}
