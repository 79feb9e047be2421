package nodes

// Graph node names. Every routing decision maps onto one of these (or
// compose.END); the graph builder registers the full set so eino can check
// branch targets at construction time.
const (
	NodeInitialize                 = "initialize"
	NodeClassifyIntent             = "classify_intent"
	NodeHandleSmallTalk            = "handle_small_talk"
	NodeAskSymptoms                = "ask_symptoms"
	NodeSearchKnowledge            = "search_knowledge"
	NodePlanResponse               = "plan_response"
	NodeRespondStep                = "respond_step"
	NodeEvaluateStatus             = "evaluate_status"
	NodeConfirmTicket              = "confirm_ticket"
	NodeEvaluateTicketConfirmation = "evaluate_ticket_confirmation"
	NodeCreateTicket               = "create_ticket"
	NodeSendNotification           = "send_notification"
)
