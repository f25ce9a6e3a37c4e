package scriptgen

import (
	"fmt"
	"strings"
)

// Structural anchors of the generated script. The introduction must carry
// both phrases verbatim: the first cues the candidate to record, the second
// opens the conversation.
const (
	PhraseRecordPrompt = "Ensure you click the record button to respond"
	PhraseOpener       = "Tell me about yourself"
)

const scriptTemplate = `You are Alex, a technical interviewer. Generate a complete interview script following this exact structure:

Job Description:
%s

Candidate Name:
%s

STRICT FORMAT REQUIREMENTS:

1. INTRODUCTION (Must be exactly 2 paragraphs):

   Paragraph 1 (MANDATORY ELEMENTS):
   - Must start with "Hi" or "Hello"
   - Must introduce yourself: "I'm Alex, a technical interviewer"
   - Must explain the interview purpose
   - Must include exactly: "Ensure you click the record button to respond"

   Paragraph 2 (MANDATORY ELEMENTS):
   - Must explain the interview process and what to expect
   - Must end with exactly: "Tell me about yourself"

2. TECHNICAL QUESTIONS:
   Based on the job description, generate:
   - 3 technical questions with follow-ups
   - Each question must assess specific skills from the job description
   - Order questions from basic to complex

3. BEHAVIORAL QUESTIONS:
   Generate exactly:
   - 1 project experience question
   - 1 technical challenge question
   - 1 team collaboration scenario

4. CANDIDATE QUESTIONS SECTION:
   Must include these exact transitions:
   - "Now, I'd like to switch gears and give you an opportunity to ask questions."
   - "What questions do you have about the role, team, or company?"
   - Must include 2-3 example follow-up prompts like:
     * "Is there anything specific about our tech stack you'd like to know more about?"
     * "Would you like to know more about our development process?"
     * "Do you have any questions about the team structure or culture?"

5. CLOSING:
   Must include:
   - Thank the candidate
   - Explain next steps clearly
   - End positively with encouragement

STRICT RULES:
1. Always follow the exact paragraph structure for the introduction
2. No timestamps or markers
3. No candidate responses
4. No bullet points or numbering
5. Questions must directly relate to the job description
6. Maintain a conversational tone throughout
7. No additional headers or formatting
8. No mentions of interview duration
9. Must include the dedicated questions section with the exact transition phrases

RESPONSE STRUCTURE:
Always present a continuous interview script with clear paragraph breaks, but no explicit sections or headers. Use transitional phrases to move between sections naturally:
- After the introduction: move naturally from "tell me about yourself" to the first technical question
- Before behavioral: "Now, let's discuss some of your past experiences..."
- Before questions: "Now, I'd like to switch gears and give you an opportunity to ask questions..."
- Before closing: "Thank you for those questions..."

The script should flow naturally while maintaining a professional and welcoming tone throughout.`

func scriptPrompt(jobDescription, candidateName string) string {
	if candidateName == "" {
		candidateName = "[Candidate Name]"
	}
	return fmt.Sprintf(scriptTemplate, jobDescription, candidateName)
}

const turnSystemPrompt = "You are an expert interviewer focused on generating insightful follow-up questions and constructive feedback. Your responses must be valid JSON objects."

const turnTemplate = `You are an expert interviewer conducting a structured interview strictly based on the provided outline. Analyze the candidate's answer, then pose the logical next question aligned with the interview's flow. Avoid unrelated questions and stay within the allotted interview duration.

**Interview Outline and Context:**
%s

**Candidate's Latest Response:**
%s

Please follow these steps:

1. Evaluate the candidate's response for completeness, relevance, and accuracy; identify strengths and areas needing clarification.
2. Generate 2-3 follow-up questions that naturally build on the response and deepen understanding of the candidate's fit for the role.
3. Provide brief, constructive, encouraging feedback on the response.
4. Determine the next logical question according to the outline, keeping the interview structured and on track.
5. Pace the interview to cover around 6-7 main questions in total.

**Important:** The nextQuestion field must contain only the question and nothing else.

Respond with a single JSON object in this exact structure:
{
  "nextQuestion": "The primary follow-up or next logical question according to the outline",
  "feedback": "Brief feedback on the candidate's response",
  "completionStatus": 0,
  "followUpQuestions": ["2-3 additional follow-up questions"]
}
completionStatus is a number from 0-100 representing interview progress.`

func turnPrompt(transcript, outline string) string {
	return fmt.Sprintf(turnTemplate, outline, transcript)
}

// ValidateScript enforces the structural contract of a generated script:
// the first paragraph carries the record prompt and the second paragraph
// ends with the opener. Semantic quality is not checked.
func ValidateScript(script string) error {
	paragraphs := strings.Split(strings.TrimSpace(script), "\n\n")
	if len(paragraphs) < 2 {
		return fmt.Errorf("script must open with a two-paragraph introduction")
	}

	if !strings.Contains(strings.ToLower(paragraphs[0]), strings.ToLower(PhraseRecordPrompt)) {
		return fmt.Errorf("introduction missing %q", PhraseRecordPrompt)
	}

	second := strings.TrimRight(strings.TrimSpace(paragraphs[1]), ".!?\"' ")
	if !strings.HasSuffix(strings.ToLower(second), strings.ToLower(PhraseOpener)) {
		return fmt.Errorf("introduction must end with %q", PhraseOpener)
	}
	return nil
}
