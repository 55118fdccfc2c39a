// Package platform describes the fixed set of distribution targets. Each
// profile carries the CTA segment configuration and the upload metadata
// builders for one platform.
package platform

import (
	"fmt"
	"image/color"
	"strings"
	"unicode"

	"quizreel/internal/question"
)

type Theme struct {
	Top    color.RGBA
	Bottom color.RGBA
}

type Profile struct {
	Name        string
	CTADuration int // seconds
	CTAText     []string
	Icons       []string
	Themes      []Theme

	title       func(q question.Question) string
	description func(q question.Question) string
}

func (p Profile) Title(q question.Question) string {
	return p.title(q)
}

func (p Profile) Description(q question.Question) string {
	return p.description(q)
}

func rgb(r, g, b uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func categoryLabel(q question.Question) string {
	return TitleCase(strings.ReplaceAll(q.Category, "_", " "))
}

// TitleCase uppercases the first letter of each word. Quiz categories and
// difficulties are plain ASCII identifiers, so a rune-level upcase is enough.
func TitleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

var ctaThemes = []Theme{
	{Top: rgb(30, 20, 60), Bottom: rgb(10, 10, 30)},
	{Top: rgb(20, 60, 50), Bottom: rgb(5, 20, 25)},
	{Top: rgb(60, 30, 20), Bottom: rgb(30, 10, 5)},
	{Top: rgb(25, 15, 50), Bottom: rgb(5, 5, 20)},
}

var tiktokThemes = []Theme{
	{Top: rgb(0, 0, 0), Bottom: rgb(30, 30, 30)},
	{Top: rgb(10, 10, 10), Bottom: rgb(60, 20, 20)},
	{Top: rgb(10, 10, 10), Bottom: rgb(20, 40, 60)},
	{Top: rgb(15, 15, 15), Bottom: rgb(40, 30, 20)},
}

var YouTube = Profile{
	Name:        "youtube",
	CTADuration: 3,
	CTAText: []string{
		"Like • Comment • Subscribe",
		"Answer drops in 24 hours 👇",
	},
	Icons:  []string{"yt_like.png", "yt_comment.png", "yt_subscribe.png"},
	Themes: ctaThemes,
	title: func(q question.Question) string {
		return fmt.Sprintf("%s Quiz • %s 🤔 #shorts", categoryLabel(q), TitleCase(q.Difficulty))
	},
	description: func(q question.Question) string {
		return fmt.Sprintf("%s\n\nComment your guess 👇\n\n#quiz #trivia #shorts", q.Text)
	},
}

var Facebook = Profile{
	Name:        "facebook",
	CTADuration: 3,
	CTAText: []string{
		"Like • Comment • Follow",
		"Share with a friend ⚽",
	},
	Icons:  []string{"fb_like.png", "fb_comment.png", "fb_follow.png"},
	Themes: ctaThemes,
	title: func(q question.Question) string {
		return fmt.Sprintf("%s Quiz", categoryLabel(q))
	},
	description: func(q question.Question) string {
		return fmt.Sprintf("%s\n\nLike • Comment • Follow\n#quiz #reels #trivia", q.Text)
	},
}

var TikTok = Profile{
	Name:        "tiktok",
	CTADuration: 3,
	CTAText: []string{
		"Follow for daily quizzes 🔥",
		"Answer in comments 👇",
	},
	Icons:  []string{"tt_like.png", "tt_comment.png", "tt_follow.png"},
	Themes: tiktokThemes,
	title: func(q question.Question) string {
		return fmt.Sprintf("%s Quiz 🤯", categoryLabel(q))
	},
	description: func(q question.Question) string {
		return fmt.Sprintf("%s\n\nThink fast ⏱ Answer below 👇\n\n#quiz #trivia #fyp", q.Text)
	},
}

// All lists every supported target in pipeline order. YouTube runs first
// because it is the only platform with an upload API wired in.
func All() []Profile {
	return []Profile{YouTube, Facebook, TikTok}
}
