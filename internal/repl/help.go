package repl

import "fmt"

const helpText = `Commands:

  /add <title> | <YYYY-MM-DD HH:MM> [| repeat [| times]]
        Add a reminder. Repeat: none, daily, weekly, monthly or
        "every N minutes|hours|days|weeks". Times: comma-separated
        HH:MM list to make it multi-time, e.g. 08:00,14:00,20:00.
  /list [pending|completed] [space <id>]
        List reminders, newest first.
  /due              Show everything overdue right now.
  /show <id>        Full details of one reminder.
  /done <id>        Toggle a reminder. Multi-time: completes remaining
                    slots, or reopens all when fully completed.
  /all-done <id>    Complete a reminder and every time slot.
  /undone <id>      Reopen a reminder (and every time slot).
  /slot <id> <n>    Toggle the n-th time slot of a multi-time reminder.
  /delete <id>      Delete a reminder and cancel its notifications.
  /countdown <id>   Live countdown to the next occurrence.

  /ai <text>        Extract reminders from plain language.
  /ai-image <path> [| prompt]
        Extract reminders from a photo or screenshot.
  /voice <path-to-wav>
        Transcribe a recording and extract reminders from it.

  /spaces           List spaces.
  /space add <name> | /space rename <id> <name> | /space rm <id>

  /help             This text.
  /quit             Leave.
`

func (r *REPL) displayHelp() {
	fmt.Print(helpText)
}
