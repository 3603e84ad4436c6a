package llm

const proposePrompt = `You are a lookahead planner. Propose %d distinct candidate policies (action sequences) for the task below.

Each action must use one of these tools only:
search_docs, read_file, write_file, run_command, query_api, ask_user, execute_task

Respond ONLY with a JSON array. No markdown, no explanation. Example:
[{"name":"research_then_draft","actions":[{"tool_name":"search_docs","rationale":"gather context first","expected_outcome":"relevant passages found"}]}]

Task: %s
Goal: %s
Context:
%s`

const scorePrompt = `You are an expected-free-energy scorer. For each action of the candidate policy below, estimate:
- uncertainty: how ambiguous the action's outcome is, from 0.0 (certain) to 1.0 (unknown)
- divergence: how far the expected outcome is from the goal, from 0.0 (on target) to 1.0 (off target)

Return one score object per action, in the same order as the actions.

Respond ONLY with a JSON array. No markdown, no explanation. Example:
[{"uncertainty":0.2,"divergence":0.3},{"uncertainty":0.1,"divergence":0.4}]

Task: %s
Goal: %s
Policy %q actions:
%s`
