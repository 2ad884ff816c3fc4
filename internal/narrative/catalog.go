package narrative

import (
	"golang.org/x/text/language"

	"github.com/pavelanni/devreport/internal/model"
)

// phrases is the fixed wording around the theme paragraphs. Fields holding
// %s take a name or a list of names.
type phrases struct {
	reportTitle  string
	ageKnown     string
	ageUnknown   string
	sex          string
	reportIntro  string
	insufficient string
	// overall paragraphs indexed by Band.
	overall       [3]string
	strengths     string
	noStrengths   string
	developing    string
	noDeveloping  string
	byArea        string
	reportClosing string

	suggestTitle   string
	suggestIntro   string
	suggestNone    string
	suggestHeading string

	planTitle     string
	planObjective string
	planIntro     string
	planClosing   string

	and string
}

// locale is the complete deterministic wording for one language.
type locale struct {
	phrases
	themes  map[model.Theme]themeText
	generic themeText
}

var english = &locale{
	phrases: phrases{
		reportTitle:  "Descriptive development report",
		ageKnown:     "Child assessed at approximately %s.",
		ageUnknown:   "Child assessed during their ongoing development at school.",
		sex:          "Declared sex: %s.",
		reportIntro:  "This report describes, in simple and objective language, how the child has been developing across the areas observed, based on observations made during the school routine.",
		insufficient: "At this point there are few observed situations for an overall analysis of the skills, and it is already possible to describe relevant aspects noticed by the teacher.",
		overall: [3]string{
			"The observations show that the child is at an early stage in several skills, which calls for close follow-up and intentional activities that help the child advance.",
			"Taken together, the observations show development in progress, with moments of confidence alternating with others in which the child benefits from support and extra opportunities to practise.",
			"Overall, the child shows well consolidated behaviours and skills for the age, taking part in activities with interest, interacting with peers and teachers and using the assessed skills frequently.",
		},
		strengths:     "Strengths: the child shows particular confidence in %s, where the observed behaviours appear often and securely.",
		noStrengths:   "Strengths: the child's strengths are emerging across the observed areas, and each new experience adds confidence.",
		developing:    "Skills in development: %s are being built, and the child benefits from support and practice in these areas.",
		noDeveloping:  "Skills in development: the observed areas are consolidated for now, and new challenges will keep the child moving forward.",
		byArea:        "Below is an analysis organised by the areas of development observed:",
		reportClosing: "This information is a snapshot in time that helps school and family follow the child's development and plan together experiences that value achievements and offer support in the areas still under construction.",

		suggestTitle:   "Home activity suggestions to support the child's development",
		suggestIntro:   "The following suggestions are for families and show simple ways to strengthen, day by day, the skills observed at school. They work as natural moments of conversation, play and time together.",
		suggestNone:    "For now, the observations show that the child's specific needs are well covered by current routines. Keeping conversations, play, reading moments and an organised routine at home contributes consistently to the child's development.",
		suggestHeading: "%s: how the family can help at home",

		planTitle:     "Whole-class development plan",
		planObjective: "General objective: support the development of the class across the assessed areas, organising collective actions and following individual needs continuously and in step with the school routine.",
		planIntro:     "What follows is an overall reading of the class by assessed dimension, with guidance and worked examples for pedagogical planning.",
		planClosing:   "Weekly planning should include daily reading, oral games, activities exploring quantities, science experiences, movement and moments of care and organisation. Continuous follow-up of each child, with simple records of progress, makes it possible to adjust interventions and strengthen the partnership with families.",

		and: "and",
	},
	themes:  catalog,
	generic: genericText,
}

var locales = map[string]*locale{
	"en": english,
	"pt": portuguese,
}

// localeFor picks the wording for a locale tag by its base language.
// Unknown or empty tags get English.
func localeFor(tag string) *locale {
	base, _ := language.Make(tag).Base()
	if l, ok := locales[base.String()]; ok {
		return l
	}
	return english
}

// Portuguese reports whether tag selects the Portuguese wording.
func Portuguese(tag string) bool {
	return localeFor(tag) == portuguese
}

// themeText is the fixed wording for one theme.
type themeText struct {
	// report paragraphs indexed by Band.
	report [3]string
	home   string
	// class plan summary and worked examples, below and at/above the class cut.
	classLow, classLowExamples   string
	classHigh, classHighExamples string
}

// catalog is the English wording per theme.
var catalog = map[model.Theme]themeText{
	model.ThemeSocial: {
		report: [3]string{
			"The child's social skills are at an early stage, with great room to grow. In many situations adult support helps the child follow rules, wait for a turn and keep respectful exchanges with peers and adults, which favours steady progress over time.",
			"The child's social skills are developing, alternating very positive interactions with moments in which adult guidance helps with rules, waiting for a turn or thinking about the effects of their own actions.",
			"The child relates well to peers and teachers, is respectful in interactions and takes part in group activities, following rules, taking turns to speak and cooperating in games most of the time.",
		},
		home:              "At home, social skills grow when the family agrees simple rules with the child, such as putting toys away after use, waiting to speak and asking kindly. Practical ideas include playing board or card games as a family to practise waiting for a turn, encouraging the child to greet people and talking about the day to help the child reflect on their own feelings and those of friends.",
		classLow:          "Social skills in the group are developing, especially in situations involving rules, waiting for a turn, solving conflicts and cooperating.",
		classLowExamples:  "Worked examples: organise games with simple, clear rules; reinforce class agreements with visual support; work through problem situations in stories and role-play, inviting the children to think of shared solutions.",
		classHigh:         "Overall the class shows good social skills, with positive relationships among the children and respect for adult guidance.",
		classHighExamples: "Worked examples: keep circle-time conversations with agreements built with the class; propose cooperative games; use stories and role-play to discuss attitudes and their consequences.",
	},
	model.ThemeSelfCare: {
		report: [3]string{
			"Self-care is under construction, with many opportunities for growth. Each reminder about hygiene, table manners, tidying materials and looking after belongings widens the child's autonomy and strengthens healthy habits.",
			"The child shows progress in self-care, alternating moments of autonomy with situations in which reminders about hygiene, belongings and classroom routines are helpful.",
			"In self-care the child uses the toilet appropriately, washes hands, eats with good manners and keeps belongings, classroom materials and backpack organised, all important for everyday autonomy.",
		},
		home:              "Self-care develops through routine, when the child receives small responsibilities suited to their age. Practical ideas include agreeing that the child puts their own toys away, involving them in setting the table, going through the steps of handwashing together and checking the backpack each day so the child notices what to take to and bring back from school.",
		classLow:          "Hygiene habits, care of materials and autonomy with one's own body and belongings are still being built in the group.",
		classLowExamples:  "Worked examples: build routine charts with the class (washing hands, putting materials away, caring for the backpack); create pretend-play games about tidying the room; set fixed moments to check materials before going home.",
		classHigh:         "As a whole the class shows good autonomy in self-care, such as hygiene, eating and organising belongings.",
		classHighExamples: "Worked examples: keep visual hygiene routines; give the children turns at organising the room; praise attitudes of care and responsibility with materials.",
	},
	model.ThemeCognitive: {
		report: [3]string{
			"Cognitive skills such as sorting, understanding quantities, recognising shapes and colours, joining experiments and enjoying stories are at an early stage of consolidation, which calls for meaningful activities and close support.",
			"The child's cognitive development is in progress. The child takes part in activities, shows curiosity and sorts, counts and recognises shapes, colours and story elements, while still benefiting from reinforcement to consolidate these skills.",
			"In the cognitive area the child participates well in maths, science and language activities, showing curiosity and interest in books, stories, experiments and challenges, and making associations and classifications confidently in many situations.",
		},
		home:              "Cognitive development gains strength in simple everyday situations. Practical ideas include counting objects at home, sorting toys by colour or size, looking at nature together and talking about what you notice, and reading stories while asking what the child understood and what may happen next. Songs, rhymes and chants also support attention and language.",
		classLow:          "The group's cognitive development is under construction, and activities connecting maths, science and language to meaningful situations tend to support important progress.",
		classLowExamples:  "Worked examples: use concrete materials for counting and sorting; run simple experiments with a shared record; read and reread stories, inviting the children to comment on pictures, characters and events.",
		classHigh:         "The class engages well with sorting, counting, recognising shapes and colours, science experiences and language activities.",
		classHighExamples: "Worked examples: develop investigation projects (plants, animals, simple phenomena); offer games comparing quantities; set up reading corners with story retelling and rhyme games.",
	},
	model.ThemeMotor: {
		report: [3]string{
			"Fine and gross motor coordination is at an early stage of consolidation. Tasks requiring hand and finger control and larger body movements are rich opportunities to plan specific motor and body-awareness activities.",
			"Motor skills are under construction. In several situations the child shows good coordination, and in others meets occasional challenges with fine materials or more coordinated movements, benefiting from extra time and practice.",
			"The child shows good control in fine and gross motor activities, handling writing tools, scissors and blocks and joining varied body movements with interest and good awareness of body and space.",
		},
		home:              "Motor skills develop through play that involves movement and the hands. Practical ideas include time to draw, paint, tear and glue paper, build with blocks or do puzzles, play at jumping, running, dancing and balancing on lines on the floor, and set up small obstacle courses with cushions and chairs, always safely and with supervision.",
		classLow:          "The group's motor skills are developing, especially in handling fine materials and in coordinated body movements.",
		classLowExamples:  "Worked examples: propose gradual cutting exercises; use construction and fitting blocks; organise simple movement circuits, raising the challenge as the class progresses.",
		classHigh:         "On average the class shows good fine and gross motor coordination and takes part in activities involving movement and writing materials.",
		classHighExamples: "Worked examples: keep varied motor circuits; offer cutting, gluing and drawing activities; include traditional games with running, jumping, rolling and balancing.",
	},
	model.ThemeLanguage: {
		report: [3]string{
			"Oral and written language skills are at an early stage. Daily reading, conversation and play with sounds and letters are rich opportunities for the child to widen vocabulary and confidence.",
			"The child's language skills are developing. The child takes part in conversations and reading moments and is building fluency, comprehension and writing with support.",
			"The child expresses ideas clearly, enjoys reading and shows good comprehension and growing autonomy in writing for the stage.",
		},
		home:              "Language grows when the family reads together every day, talks about the stories, plays word and rhyme games and invites the child to write shopping lists, notes or cards.",
		classLow:          "Reading, speaking and writing skills in the group are developing and benefit from daily, meaningful language practice.",
		classLowExamples:  "Worked examples: read aloud every day with questions about the text; keep a class word wall; propose shared writing of notes and short stories.",
		classHigh:         "The class shows good oral expression, reading comprehension and writing for the stage.",
		classHighExamples: "Worked examples: run reading circles with retelling; propose author projects with illustrated booklets; encourage debates on everyday topics.",
	},
	model.ThemeMath: {
		report: [3]string{
			"Mathematical reasoning is at an early stage. Concrete materials, games with quantities and everyday problems are good opportunities for the child to build number sense.",
			"The child's mathematical skills are developing. The child solves familiar problems and works with quantities, benefiting from concrete support and practice to consolidate strategies.",
			"The child shows solid number sense, solves problems with their own strategies and explains their reasoning confidently.",
		},
		home:              "Mathematics is everywhere at home: cooking with measures, counting money while shopping, playing dice and card games and talking about time and calendars all support number sense.",
		classLow:          "Mathematical reasoning in the group is developing, and concrete, playful problem solving tends to support progress.",
		classLowExamples:  "Worked examples: use counters and number lines; play market and measuring games; discuss different strategies for the same problem.",
		classHigh:         "The class shows good number sense and problem-solving strategies.",
		classHighExamples: "Worked examples: propose open problems with several solutions; run estimation challenges; keep maths journals where children explain their reasoning.",
	},
}

var genericText = themeText{
	report: [3]string{
		"In this area the child is at an early stage and benefits from frequent support and specific activities to progress.",
		"In this area skills are developing, with important progress and points that grow stronger as the child meets new situations.",
		"In this area the child shows well developed skills for the age, with behaviours that appear often and confidently.",
	},
	home:              "At home, time together, conversation and play related to this area offer rich learning opportunities. Sitting with the child, listening carefully, proposing simple games and valuing achievements supports development a great deal.",
	classLow:          "For this area, plan teaching sequences that combine free exploration, guided activities and individual follow-up.",
	classLowExamples:  "Worked examples: alternate free exploration with short guided activities; record individual progress weekly; share progress with families.",
	classHigh:         "The class shows consistent progress in this area.",
	classHighExamples: "Worked examples: propose richer challenges; let children share strategies with peers; record achievements with the group.",
}

// textFor returns the entry for a theme, or the generic wording.
func (l *locale) textFor(t model.Theme) themeText {
	if tt, ok := l.themes[t]; ok {
		return tt
	}
	return l.generic
}
