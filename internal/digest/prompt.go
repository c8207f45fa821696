// Package digest turns one day of raw activity into a natural-language
// summary and anonymized achievement candidates via a hosted LLM.
package digest

import (
	"fmt"
	"strings"

	"github.com/ktanaka/careerlog/internal/types"
)

// bodyExcerptLimit caps how much of an activity body goes into the prompt.
const bodyExcerptLimit = 300

// EmptySummary is returned without an LLM call when there is nothing to
// digest for the day.
const EmptySummary = "今日の活動データがありません。"

// BuildPrompt assembles the daily summary prompt from the activity list and
// optional manual notes. Category and significance values are written from
// the shared enums so the instructed output vocabulary cannot drift from
// what the store accepts.
func BuildPrompt(activities []types.RawActivity, manualNotes string) string {
	var lines []string
	for _, a := range activities {
		line := fmt.Sprintf("- [%s] %s", a.ActivityType, a.Title)
		if a.Body != "" {
			line += "\n  詳細: " + excerpt(a.Body, bodyExcerptLimit)
		}
		if repo := a.Repo(); repo != "" {
			line += "\n  リポジトリ: " + repo
		}
		lines = append(lines, line)
	}
	activityList := strings.Join(lines, "\n\n")

	manualSection := ""
	if manualNotes != "" {
		manualSection = "\n\n## 手動メモ\n" + manualNotes
	}

	categories := make([]string, 0, len(types.Categories()))
	for _, c := range types.Categories() {
		categories = append(categories, string(c))
	}

	return fmt.Sprintf(`あなたは職務経歴書作成のアシスタントです。
エンジニアの1日の活動データを分析し、職務経歴書に記載できる実績候補を抽出してください。

## 重要ルール
1. **匿名化**: 会社固有のプロジェクト名、コードネーム、社内用語は一般的な表現に置き換えてください
   - 例: "Project Phoenix" → "社内基幹システム刷新プロジェクト"
   - 例: "JIRA-1234" → 削除
   - 例: "hogehoge-service" → "マイクロサービス"
2. **構造**: 「何を」「どのように」「どんな成果/インパクト」の構造で記述
3. **技術キーワード**: プログラミング言語、フレームワーク名は具体的に残す
4. **除外**: typo修正、README更新等の些末な活動は除外
5. **統合**: 関連する活動は1つの実績にまとめる
6. **言語**: 日本語で出力

## 活動データ
%s%s

## 出力形式
以下のJSON形式で出力してください:
{
  "dailySummary": "今日の活動の概要（3-5行の日本語テキスト）",
  "achievementCandidates": [
    {
      "title": "実績の短いタイトル（20文字以内）",
      "description": "職務経歴書に記載できる形式の実績文（2-3文）",
      "category": "%s",
      "technologies": ["React", "TypeScript"],
      "significance": "high | medium | low"
    }
  ]
}

活動がない場合や実績にならない些末な内容のみの場合は、achievementCandidatesを空配列にしてください。`,
		activityList, manualSection, strings.Join(categories, " | "))
}

// excerpt truncates s to at most limit runes.
func excerpt(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
