package prompts

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownTemplate = errors.New("unknown template")

type FieldType string

const (
	FieldText     FieldType = "text"
	FieldSelect   FieldType = "select"
	FieldTextarea FieldType = "textarea"
)

type Option struct {
	Value string `json:"value"`
	Text  string `json:"text"`
}

type Field struct {
	Type        FieldType `json:"type"`
	ID          string    `json:"id"`
	Label       string    `json:"label"`
	Placeholder string    `json:"placeholder,omitempty"`
	Options     []Option  `json:"options,omitempty"`
}

// Values maps a field id to the submitted value.
type Values map[string]string

type Template struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Fields      []Field `json:"form"`

	build func(Values) string
}

// Prompt expands the template with the submitted values. Missing fields
// expand to the empty string.
func (t Template) Prompt(v Values) string {
	return t.build(v)
}

func lines(parts ...string) string {
	return strings.Join(parts, "\n")
}

var platformSpecifics = map[string]string{
	"instagram": "Include relevant hashtags and an engaging caption that encourages engagement.",
	"twitter":   "Keep it concise and include relevant hashtags. Make it shareable.",
	"facebook":  "Write an engaging post that encourages comments and shares.",
	"linkedin":  "Write a professional post that provides value to a business audience.",
}

var templates = []Template{
	{
		ID:          "blog-post",
		Title:       "Blog Post",
		Description: "Create a well-structured blog post with an engaging introduction, informative body, and conclusion.",
		Fields: []Field{
			{Type: FieldText, ID: "blog-title", Label: "Blog Title", Placeholder: "Enter a title for your blog post"},
			{Type: FieldSelect, ID: "blog-category", Label: "Category", Options: []Option{
				{"technology", "Technology"},
				{"health", "Health & Wellness"},
				{"business", "Business"},
				{"lifestyle", "Lifestyle"},
				{"education", "Education"},
			}},
			{Type: FieldTextarea, ID: "blog-keywords", Label: "Keywords (comma separated)", Placeholder: "Enter keywords related to your topic"},
		},
		build: func(v Values) string {
			return lines(
				fmt.Sprintf("Write a blog post titled \"%s\" in the %s category.", v["blog-title"], v["blog-category"]),
				fmt.Sprintf("Include these keywords: %s.", v["blog-keywords"]),
				"The blog should have an engaging introduction, informative body with subheadings, and a conclusion.",
				"Format the blog post with proper Markdown formatting including headers, bullet points where appropriate, and emphasis on key points.",
			)
		},
	},
	{
		ID:          "social-media",
		Title:       "Social Media Post",
		Description: "Create engaging social media content optimized for your platform of choice.",
		Fields: []Field{
			{Type: FieldSelect, ID: "platform", Label: "Platform", Options: []Option{
				{"instagram", "Instagram"},
				{"twitter", "Twitter"},
				{"facebook", "Facebook"},
				{"linkedin", "LinkedIn"},
			}},
			{Type: FieldText, ID: "topic", Label: "Topic", Placeholder: "What is your post about?"},
			{Type: FieldSelect, ID: "post-type", Label: "Post Type", Options: []Option{
				{"promotional", "Promotional"},
				{"informative", "Informative"},
				{"entertaining", "Entertaining"},
				{"inspirational", "Inspirational"},
			}},
		},
		build: func(v Values) string {
			return lines(
				fmt.Sprintf("Create a %s social media post for %s about %s.", v["post-type"], v["platform"], v["topic"]),
				platformSpecifics[v["platform"]],
			)
		},
	},
	{
		ID:          "email",
		Title:       "Email",
		Description: "Create professional or marketing emails with compelling subject lines and content.",
		Fields: []Field{
			{Type: FieldSelect, ID: "email-type", Label: "Email Type", Options: []Option{
				{"newsletter", "Newsletter"},
				{"promotional", "Promotional"},
				{"welcome", "Welcome Email"},
				{"follow-up", "Follow-up"},
				{"professional", "Professional Communication"},
			}},
			{Type: FieldText, ID: "recipient", Label: "Recipient", Placeholder: "Who is this email for? (e.g., customers, colleagues)"},
			{Type: FieldText, ID: "email-topic", Label: "Topic/Purpose", Placeholder: "What is the main purpose of this email?"},
		},
		build: func(v Values) string {
			return lines(
				fmt.Sprintf("Write a %s email to %s about %s.", v["email-type"], v["recipient"], v["email-topic"]),
				"Include a compelling subject line, greeting, body content, and appropriate sign-off.",
				"Format the email properly with clear sections and professional language.",
			)
		},
	},
	{
		ID:          "product-description",
		Title:       "Product Description",
		Description: "Create compelling product descriptions that highlight features and benefits.",
		Fields: []Field{
			{Type: FieldText, ID: "product-name", Label: "Product Name", Placeholder: "Enter the name of your product"},
			{Type: FieldSelect, ID: "product-category", Label: "Category", Options: []Option{
				{"electronics", "Electronics"},
				{"clothing", "Clothing & Fashion"},
				{"home", "Home & Kitchen"},
				{"beauty", "Beauty & Personal Care"},
				{"software", "Software & Digital Products"},
			}},
			{Type: FieldTextarea, ID: "key-features", Label: "Key Features (comma separated)", Placeholder: "List the main features of your product"},
		},
		build: func(v Values) string {
			return lines(
				fmt.Sprintf("Write a compelling product description for \"%s\" in the %s category.", v["product-name"], v["product-category"]),
				fmt.Sprintf("Highlight these key features: %s.", v["key-features"]),
				"The description should be persuasive, highlight benefits as well as features, and include a strong call to action.",
				"Format the description with appropriate sections like Overview, Features, Benefits, and Specifications.",
			)
		},
	},
	{
		ID:          "story",
		Title:       "Creative Story",
		Description: "Generate a creative story with characters, plot, and setting.",
		Fields: []Field{
			{Type: FieldSelect, ID: "story-genre", Label: "Genre", Options: []Option{
				{"fantasy", "Fantasy"},
				{"sci-fi", "Science Fiction"},
				{"mystery", "Mystery"},
				{"romance", "Romance"},
				{"adventure", "Adventure"},
			}},
			{Type: FieldText, ID: "main-character", Label: "Main Character", Placeholder: "Describe the main character"},
			{Type: FieldTextarea, ID: "story-setting", Label: "Setting", Placeholder: "Describe where and when the story takes place"},
		},
		build: func(v Values) string {
			return lines(
				fmt.Sprintf("Write a %s short story featuring a character described as: %s.", v["story-genre"], v["main-character"]),
				fmt.Sprintf("The story should be set in %s.", v["story-setting"]),
				"Include a compelling beginning, middle with conflict, and satisfying resolution.",
				"Use descriptive language and dialogue to bring the story to life.",
			)
		},
	},
	{
		ID:          "code",
		Title:       "Code Example",
		Description: "Generate code examples with explanations.",
		Fields: []Field{
			{Type: FieldSelect, ID: "programming-language", Label: "Programming Language", Options: []Option{
				{"javascript", "JavaScript"},
				{"python", "Python"},
				{"java", "Java"},
				{"csharp", "C#"},
				{"php", "PHP"},
				{"ruby", "Ruby"},
			}},
			{Type: FieldText, ID: "code-purpose", Label: "Purpose", Placeholder: "What should the code do?"},
			{Type: FieldSelect, ID: "code-level", Label: "Complexity Level", Options: []Option{
				{"beginner", "Beginner"},
				{"intermediate", "Intermediate"},
				{"advanced", "Advanced"},
			}},
		},
		build: func(v Values) string {
			return lines(
				fmt.Sprintf("Write a %s level %s code example that %s.", v["code-level"], v["programming-language"], v["code-purpose"]),
				"Include code comments, proper formatting, and a brief explanation of how the code works.",
				"Also include any necessary imports or dependencies, and explain any potential edge cases or optimizations.",
			)
		},
	},
}

var templatesByID = func() map[string]Template {
	m := make(map[string]Template, len(templates))
	for _, t := range templates {
		m[t.ID] = t
	}
	return m
}()

// Templates returns the built-in templates in display order.
func Templates() []Template {
	out := make([]Template, len(templates))
	copy(out, templates)
	return out
}

func Lookup(id string) (Template, bool) {
	t, ok := templatesByID[id]
	return t, ok
}

// Expand builds the prompt for the template id from the submitted values.
func Expand(id string, values Values) (string, error) {
	t, ok := Lookup(id)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownTemplate, id)
	}
	return t.Prompt(values), nil
}
