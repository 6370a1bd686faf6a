package responder

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"staybot/models"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiGenerator renders replies with Gemini. The decision travels to the
// model as JSON so the prompt carries category, reservation case and merged
// context without this package interpreting them.
type GeminiGenerator struct {
	model *genai.GenerativeModel
}

func NewGeminiGenerator(apiKey string) (*GeminiGenerator, error) {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiGenerator{model: client.GenerativeModel("models/gemini-1.5-pro")}, nil
}

const systemPreamble = `Sos el asistente virtual de un hospedaje. Respondé en español rioplatense,
de forma breve y cordial, usando exclusivamente los datos del JSON siguiente.
Si "case.kind" es "ready", compartí el enlace de checkout. Si falta un dato
(missing_room, missing_dates, missing_guests), pedilo. Si la capacidad fue
excedida (capacity_exceeded), explicá el límite y ofrecé las combinaciones
listadas. Si "pastDate" está presente, indicá que la fecha ya pasó. No
inventes habitaciones, precios ni fechas.`

func (g *GeminiGenerator) Generate(ctx context.Context, decision models.Decision) (string, error) {
	payload, err := json.Marshal(decision)
	if err != nil {
		return "", fmt.Errorf("encode decision: %w", err)
	}
	prompt := systemPreamble + "\n\n" + string(payload)
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini returned no candidates")
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			sb.WriteString(string(textPart))
		}
	}
	return sb.String(), nil
}
