package resume

import (
	"encoding/json"
	"fmt"
	"time"
)

// BuildPrompt assembles the generation prompt. Data sections are embedded as
// indented JSON so the model sees exact field values, the way the profile
// data was curated.
func BuildPrompt(input Input, now time.Time) string {
	dateStr := fmt.Sprintf("%d年%d月%d日", now.Year(), int(now.Month()), now.Day())

	targetRule := ""
	if input.TargetCompany != "" {
		target := input.TargetCompany
		if input.TargetPosition != "" {
			target += " (" + input.TargetPosition + ")"
		}
		targetRule = fmt.Sprintf("\n7. 応募先: %s に合わせた強調ポイントを選択", target)
	}

	profileLines := fmt.Sprintf("氏名: %s %s", input.Profile.LastName, input.Profile.FirstName)
	if input.Profile.Summary != "" {
		profileLines += "\n職務要約: " + input.Profile.Summary
	}
	if input.Profile.SelfIntroduction != "" {
		profileLines += "\n自己紹介: " + input.Profile.SelfIntroduction
	}

	return fmt.Sprintf(`あなたは日本の職務経歴書作成の専門家です。
以下のデータを基に、%s形式の職務経歴書コンテンツを生成してください。

## 重要ルール
1. 日本の転職市場で通用するフォーマットに従う
2. 具体的な数値（チーム規模、期間等）を含める
3. 「何を」「どのように」「どんな成果」の構造で実績を記述
4. 技術スタック名は正確に記載
5. 匿名化済みのデータなのでそのまま使用してよい
6. 職務経歴の各社について、提供された実績データから適切なプロジェクトにまとめる%s

## プロフィールデータ
%s

## 職務経歴データ
%s

## 実績データ
%s

## スキルデータ
%s

## 出力形式
以下のJSON形式で出力してください。各フィールドは日本語で記述してください:
{
  "title": "職務経歴書",
  "date": "%s",
  "name": "%s %s",
  "summary": "職務要約（3-5行で経歴の概要を記述）",
  "skills": [
    { "category": "カテゴリ名", "items": ["スキル名1", "スキル名2"] }
  ],
  "workHistories": [
    {
      "companyName": "会社名",
      "period": "YYYY年MM月 ～ YYYY年MM月",
      "employmentType": "雇用形態",
      "position": "役職",
      "department": "部署",
      "companyDescription": "会社概要（1文）",
      "projects": [
        {
          "name": "プロジェクト名",
          "period": "YYYY年MM月 ～ YYYY年MM月",
          "role": "担当役割",
          "teamSize": "チーム規模",
          "description": "プロジェクト概要",
          "achievements": ["実績1（具体的に）", "実績2"],
          "technologies": ["技術1", "技術2"]
        }
      ]
    }
  ],
  "selfPR": "自己PR（3-5行）"
}

JSONのみ出力してください。マークダウンのコードブロックは不要です。`,
		input.Format.Label(), targetRule, profileLines,
		marshalSection(input.WorkHistories),
		marshalSection(input.Achievements),
		marshalSection(input.Skills),
		dateStr, input.Profile.LastName, input.Profile.FirstName)
}

func marshalSection(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "[]"
	}
	return string(data)
}
