package workflow

// guardPromptTemplate formats the research output and the user prompt.
const guardPromptTemplate = `You are a STRICT relevance gate.

Allow the request if:
1. The user prompt is a follow-up, clarification, or EDIT
   of the existing research output (including removing,
   rewriting, or modifying sections), OR
2. The user prompt is about the same core subject or concept
   as the research output, even if it explores a different
   dimension such as:
   - applications or use cases
   - real-world adoption or examples
   - organizations, people, or systems involved
   - benefits, limitations, risks, or impact
   - comparisons or extensions of the same subject

Reject only if the user introduces a different core subject
that would require an entirely separate research corpus.

When unsure:
- Choose "allow" if the core subject is unchanged
- Otherwise choose "reject".

Return exactly one word: allow or reject.

Research output:
%s

User prompt:
%s
`

const intentPrompt = `You are an intent classifier for marketing content creation.
Analyze the user's prompt and decide whether they want LinkedIn content, blog content, or both.

Rules:
- Output JSON only in the form: {"intent": ["LinkedIn", "blog"]}.
- Use "LinkedIn" and/or "blog" (case-sensitive) as values.
- If intent is ambiguous, default to both ["LinkedIn", "blog"].
`

const topicSectionsPrompt = `You extract a topic and any explicit section headings from the user's prompt.

Rules:
- Remove generic platform labels like "LinkedIn" or "blog" (any casing) from the topic text.
- Only return a topic if the user explicitly mentioned one. Do NOT invent a topic.
- Only return sections if the user explicitly listed them. Do NOT invent sections.
- If nothing is provided, return empty strings/arrays.

Output strict JSON: {"topic": "<topic or empty string>", "sections": ["...", "..."]}.
`

// topicGeneratorPromptTemplate formats the research metadata corpus.
const topicGeneratorPromptTemplate = `You are a content strategist. The user did not provide a clear topic/sections.
Use ONLY the provided research metadata (keywords, insights, summaries) to suggest a topic and sections.

Requirements:
- Synthesize across all documents to find a strong unifying theme.
- Propose a concise topic and 6-8 logical sections.
- Do NOT invent information beyond the metadata; ground suggestions in the provided content.

Return JSON: {"topic": "...", "sections": ["...", "..."]}.

RESEARCH METADATA:
%s
`

// blogPromptTemplate formats topic, sections, brand voice, user prompt, and
// the retrieved context block.
const blogPromptTemplate = `You are an expert SEO copywriter. Write a grounded, factually consistent blog post.

Use ONLY the provided research snippets for factual grounding. You may elaborate with general knowledge,
but do not contradict or fabricate details beyond the snippets.

Constraints:
- Follow the topic and sections when provided. You may add sub-sections where useful.
- Keep tone aligned to the brand voice.
- Deterministic output: minimize randomness and avoid rambling.
- Return JSON only with keys: blog_markdown, meta_title, meta_description (no code fences).

Topic: %s
Sections: %s
Brand voice guidance: %s
User prompt: %s

Relevant research snippets:
%s
`

// linkedinPromptTemplate formats topic, sections, user prompt, and the
// retrieved context block.
const linkedinPromptTemplate = `You are a LinkedIn content strategist. Craft content grounded in the supplied research snippets.

Requirements:
- Return JSON only with keys: post, carousel (carousel is optional; omit or return an empty string if not needed).
- Use hooks, concise phrasing, and clear value delivery.
- Stay aligned to the topic; do NOT invent facts beyond the provided snippets.
- If sections are provided, you may use them to structure the narrative; otherwise, write a strong single post.

Topic: %s
Sections: %s
User prompt: %s

Relevant research snippets:
%s
`

const titlePromptPrefix = "Generate a concise, 3-6 word title for the following research summary. " +
	"Return only the title with no quotes.\n\nSummary:\n"
