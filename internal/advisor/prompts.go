package advisor

import (
	"fmt"
	"strings"

	"github.com/diogo/careerpilot/internal/models"
)

const chatPromptTemplate = `You are a friendly and expert career advisor, 'AI Career Co-pilot', having a conversation with %s. Your primary goal is to strategically and naturally gather their professional information to build their profile.

1.  **Analyze the chat history** to understand what you have already asked and what information the user has provided.
2.  **Identify the next logical piece of information needed** (e.g., if you have their name, ask for their title). The required fields are: fullName, professionalTitle, skills, lastRole, and education.
3.  **Formulate a friendly, conversational question** to ask for that information. Do not ask for everything at once.
4.  **After you ask the question, you MUST return a JSON object** containing the updated profile and your response. The JSON should look like this: {"response": "Your conversational question here.", "updated_profile": {"fullName": "...", "professionalTitle": "...", ...}}
5.  **If the user's last message contains information, extract it** and include it in the ` + "`updated_profile`" + ` part of your JSON response.
6.  **Once all five fields are filled**, your final response should be a concluding message like, "%s" and set the ` + "`profile_complete`" + ` flag to true in the JSON.
`

const generationPromptTemplate = `You are an expert career advisor specialising in crafting compelling and human-sounding resumes and cover letters in British English for %s. Your goal is to generate professional documents that highlight the user's skills, experience, and suitability for a given role. Avoid overly formal or robotic language and focus on showcasing accomplishments and quantifiable results. Write in a conversational and confident tone. Use correct British English spelling and grammar (e.g., 'organise', 'analyse', 'CV'). Generate the document as a single block of formatted text. Do not include any introductory text like 'Here is the CV:' or 'Here is the generated cover letter.'.`

// Fixed replies
const (
	MsgProfileDone   = "Great, I have everything I need. Please paste the job description below so we can get started on your application!"
	MsgWelcomeBack   = "Welcome back! Please paste the job description below to get started."
	MsgRephrase      = "I apologize, I had a little trouble understanding that. Could you please rephrase?"
	MsgIncomplete    = "User profile is incomplete. Please complete your profile first."
	MsgGenerateError = "Failed to generate content from AI."
)

func subject(userName string) string {
	if userName == "" {
		return "a user"
	}
	return "a user named " + userName
}

// ChatSystemPrompt returns the instructions for the profile conversation
func ChatSystemPrompt(userName string) string {
	return fmt.Sprintf(chatPromptTemplate, subject(userName), MsgProfileDone)
}

// GenerationSystemPrompt returns the instructions for document generation
func GenerationSystemPrompt(userName string) string {
	return fmt.Sprintf(generationPromptTemplate, subject(userName))
}

// Greeting is the first bot line, seeded into the opening prompt
func Greeting(userName string) string {
	return fmt.Sprintf("Hello%s, let's get your profile ready. What is your full name?", namePart(userName))
}

// FallbackGreeting is returned when the model cannot produce an opening question
func FallbackGreeting(userName string) string {
	return fmt.Sprintf("Hello%s, I'm ready to help! What is your full name?", namePart(userName))
}

func namePart(userName string) string {
	if first := firstName(userName); first != "" {
		return " " + first
	}
	return ""
}

func firstName(userName string) string {
	fields := strings.Fields(userName)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// BuildChatPrompt renders the system prompt followed by the transcript as
// "sender: text" lines
func BuildChatPrompt(userName string, history []models.ChatMessage) string {
	var sb strings.Builder
	sb.WriteString(ChatSystemPrompt(userName))
	sb.WriteString("\n\nChat History:\n")
	for _, msg := range history {
		fmt.Fprintf(&sb, "%s: %s\n", msg.Sender, msg.Text)
	}
	return sb.String()
}

// BuildGenerationPrompt combines the generation instructions, the profile
// block, the job description and the task line
func BuildGenerationPrompt(userName string, p models.Profile, jobDescription string, kind models.DocumentKind) string {
	return fmt.Sprintf("%s\n\n%s\n\nJOB DESCRIPTION:\n%s\n\nTASK: %s",
		GenerationSystemPrompt(userName), p.Summary(), jobDescription, kind.Task())
}
